package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"retrofit_risk/pkg/shared"
)

// PostgresDefaultsRepository reads default CAPEX/OPEX rows from the
// retrofit_defaults table
type PostgresDefaultsRepository struct {
	db *sqlx.DB
}

// NewPostgresDefaultsRepository creates a repository over an existing
// database connection
func NewPostgresDefaultsRepository(db *sqlx.DB) *PostgresDefaultsRepository {
	return &PostgresDefaultsRepository{db: db}
}

// DefaultCapexOpex fetches the defaults row for a property type
func (r *PostgresDefaultsRepository) DefaultCapexOpex(ctx context.Context, propertyType string) (ProjectDefaults, error) {
	const query = `
		SELECT property_type, capex, annual_opex
		FROM retrofit_defaults
		WHERE property_type = $1`

	var defaults ProjectDefaults
	err := r.db.GetContext(ctx, &defaults, query, propertyType)
	if errors.Is(err, sql.ErrNoRows) {
		return ProjectDefaults{}, shared.NewBusinessErrorWithDetails(shared.CodeInvalidInputs,
			"unknown property type", propertyType)
	}
	if err != nil {
		return ProjectDefaults{}, fmt.Errorf("failed to fetch defaults for %s: %w", propertyType, err)
	}
	return defaults, nil
}

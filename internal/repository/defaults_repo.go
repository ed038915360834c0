package repository

import (
	"context"

	"retrofit_risk/pkg/shared"
)

// ProjectDefaults holds default CAPEX/OPEX values for a property type,
// used when a request omits the explicit figures
type ProjectDefaults struct {
	PropertyType string  `db:"property_type" json:"property_type"`
	Capex        float64 `db:"capex" json:"capex"`
	AnnualOpex   float64 `db:"annual_opex" json:"annual_opex"`
}

// DefaultsRepository resolves default CAPEX/OPEX figures. The risk engine
// itself never sees this interface; resolution happens in the HTTP
// adapter so the core always receives explicit numbers.
type DefaultsRepository interface {
	DefaultCapexOpex(ctx context.Context, propertyType string) (ProjectDefaults, error)
}

// MemoryDefaultsRepository is the in-process fallback used when no
// database is configured
type MemoryDefaultsRepository struct {
	defaults map[string]ProjectDefaults
}

// NewMemoryDefaultsRepository seeds the repository with the shipped
// per-property-type defaults
func NewMemoryDefaultsRepository() *MemoryDefaultsRepository {
	repo := &MemoryDefaultsRepository{defaults: make(map[string]ProjectDefaults)}
	for _, d := range []ProjectDefaults{
		{PropertyType: "apartment", Capex: 25000, AnnualOpex: 800},
		{PropertyType: "detached_house", Capex: 60000, AnnualOpex: 2000},
		{PropertyType: "multi_family", Capex: 120000, AnnualOpex: 4500},
		{PropertyType: "office", Capex: 180000, AnnualOpex: 7000},
	} {
		repo.defaults[d.PropertyType] = d
	}
	return repo
}

// DefaultCapexOpex returns the defaults for a property type
func (r *MemoryDefaultsRepository) DefaultCapexOpex(_ context.Context, propertyType string) (ProjectDefaults, error) {
	if d, ok := r.defaults[propertyType]; ok {
		return d, nil
	}
	return ProjectDefaults{}, shared.NewBusinessErrorWithDetails(shared.CodeInvalidInputs,
		"unknown property type", propertyType)
}

package handlers

import (
	"context"

	"retrofit_risk/internal/assessment"
	"retrofit_risk/internal/domain"
	"retrofit_risk/internal/reporting"
	"retrofit_risk/internal/repository"
)

// AssessmentService is the engine contract the handlers depend on
type AssessmentService interface {
	RunRiskAssessment(ctx context.Context, inputs domain.ProjectInputs, opts assessment.Options) (*reporting.ResultEnvelope, error)
}

// DefaultsResolver resolves default CAPEX/OPEX figures for requests that
// omit them
type DefaultsResolver interface {
	DefaultCapexOpex(ctx context.Context, propertyType string) (repository.ProjectDefaults, error)
}

// HealthChecker reports the aggregated component health
type HealthChecker interface {
	Status(ctx context.Context) (healthy bool, checks map[string]string)
}

package domain

import (
	"retrofit_risk/pkg/shared"
)

// Project lifetime bounds in years
const (
	MinProjectLifetime = 1
	MaxProjectLifetime = 30
)

// Scenario count bounds for a single assessment
const (
	MinSimulations = 1000
	MaxSimulations = 100000
)

// ProjectInputs describes one energy-retrofit investment to be assessed.
// AnnualEnergySavings is expressed in kWh per year; the sampled grid
// electricity price converts it to a yearly cash inflow.
type ProjectInputs struct {
	Capex                 float64 `json:"capex"`
	AnnualMaintenanceCost float64 `json:"annual_maintenance_cost"`
	AnnualEnergySavings   float64 `json:"annual_energy_savings"`
	ProjectLifetime       int     `json:"project_lifetime"`
	LoanAmount            float64 `json:"loan_amount"`
	LoanTermYears         int     `json:"loan_term"`
}

// HasLoan reports whether a debt overlay applies to the cash-flow series
func (p ProjectInputs) HasLoan() bool {
	return p.LoanAmount > 0
}

// Equity returns the upfront outflow not covered by debt
func (p ProjectInputs) Equity() float64 {
	return p.Capex - p.LoanAmount
}

// Validate checks all input invariants and returns an aggregate of the
// violations, or nil when the inputs are well-formed
func (p ProjectInputs) Validate() error {
	verrs := &shared.ValidationErrors{}

	if p.Capex <= 0 {
		verrs.Add("capex", "must be greater than zero")
	}
	if p.AnnualMaintenanceCost < 0 {
		verrs.Add("annual_maintenance_cost", "must not be negative")
	}
	if p.AnnualEnergySavings <= 0 {
		verrs.Add("annual_energy_savings", "must be greater than zero")
	}
	if p.ProjectLifetime < MinProjectLifetime || p.ProjectLifetime > MaxProjectLifetime {
		verrs.Add("project_lifetime", "must be between 1 and 30 years")
	}
	if p.LoanAmount < 0 {
		verrs.Add("loan_amount", "must not be negative")
	}
	if p.LoanAmount > p.Capex {
		verrs.Add("loan_amount", "must not exceed capex")
	}
	if p.LoanTermYears < 0 {
		verrs.Add("loan_term", "must not be negative")
	}
	if p.LoanTermYears > p.ProjectLifetime {
		verrs.Add("loan_term", "must not exceed project lifetime")
	}
	if p.LoanAmount > 0 && p.LoanTermYears == 0 {
		verrs.Add("loan_term", "required when loan_amount is set")
	}

	if verrs.HasErrors() {
		return verrs.AsBusinessError()
	}
	return nil
}

package dto

// RiskAssessmentRequest mirrors ProjectInputs plus the run parameters.
// Capex and annual_maintenance_cost may be omitted, in which case the
// handler resolves them from the per-property-type defaults.
type RiskAssessmentRequest struct {
	Capex                 *float64 `json:"capex" binding:"omitempty,gt=0"`
	AnnualMaintenanceCost *float64 `json:"annual_maintenance_cost" binding:"omitempty,gte=0"`
	AnnualEnergySavings   float64  `json:"annual_energy_savings" binding:"required,gt=0"`
	ProjectLifetime       int      `json:"project_lifetime" binding:"required,min=1,max=30"`
	LoanAmount            float64  `json:"loan_amount" binding:"omitempty,gte=0"`
	LoanTermYears         int      `json:"loan_term" binding:"omitempty,gte=0"`
	PropertyType          string   `json:"property_type" binding:"omitempty,min=1,max=40"`

	NSims       int      `json:"n_sims" binding:"omitempty,min=1000,max=100000"`
	Seed        *int64   `json:"seed"`
	OutputLevel string   `json:"output_level" binding:"required,oneof=private professional"`
	Indicators  []string `json:"indicators" binding:"omitempty,dive,oneof=IRR NPV ROI PBP DPP"`
}

// NeedsDefaults reports whether a defaults lookup is required
func (r *RiskAssessmentRequest) NeedsDefaults() bool {
	return r.Capex == nil || r.AnnualMaintenanceCost == nil
}

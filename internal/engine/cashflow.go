package engine

import (
	"retrofit_risk/internal/domain"
)

// CashFlowDetail holds the year-resolved components of one cash-flow
// series. All slices have length project_lifetime+1; index 0 is the
// initial year (equity outflow, no operations).
type CashFlowDetail struct {
	Flows       []float64
	Savings     []float64
	Maintenance []float64
	DebtService []float64
}

// BuildCashFlowDetail constructs the full component breakdown for one
// market trajectory. Used for the deterministic median-scenario timeline;
// the Monte Carlo hot path uses buildFlowsInto to avoid the extra slices.
func BuildCashFlowDetail(inputs domain.ProjectInputs, inflation, loanRate, electricity []float64) *CashFlowDetail {
	lifetime := inputs.ProjectLifetime
	detail := &CashFlowDetail{
		Flows:       make([]float64, lifetime+1),
		Savings:     make([]float64, lifetime+1),
		Maintenance: make([]float64, lifetime+1),
		DebtService: make([]float64, lifetime+1),
	}

	detail.Flows[0] = -inputs.Equity()

	cumInflation := 1.0
	for t := 1; t <= lifetime; t++ {
		cumInflation *= 1 + inflation[t-1]

		detail.Savings[t] = inputs.AnnualEnergySavings * electricity[t-1]
		detail.Maintenance[t] = inputs.AnnualMaintenanceCost * cumInflation
		detail.DebtService[t] = debtService(inputs, loanRate, t)
		detail.Flows[t] = detail.Savings[t] - detail.Maintenance[t] - detail.DebtService[t]
	}
	return detail
}

// buildFlowsInto writes the net cash-flow series for one trajectory into
// dst, which must have length project_lifetime+1
func buildFlowsInto(dst []float64, inputs domain.ProjectInputs, inflation, loanRate, electricity []float64) {
	lifetime := inputs.ProjectLifetime
	dst[0] = -inputs.Equity()

	cumInflation := 1.0
	for t := 1; t <= lifetime; t++ {
		cumInflation *= 1 + inflation[t-1]
		operating := inputs.AnnualEnergySavings*electricity[t-1] - inputs.AnnualMaintenanceCost*cumInflation
		dst[t] = operating - debtService(inputs, loanRate, t)
	}
}

// debtService returns year t's constant-principal amortization payment:
// equal principal each year, interest on the declining balance at that
// year's sampled rate. Zero outside the loan term.
func debtService(inputs domain.ProjectInputs, loanRate []float64, t int) float64 {
	if !inputs.HasLoan() || t > inputs.LoanTermYears {
		return 0
	}
	principal := inputs.LoanAmount / float64(inputs.LoanTermYears)
	outstanding := inputs.LoanAmount - principal*float64(t-1)
	return principal + outstanding*loanRate[t-1]
}

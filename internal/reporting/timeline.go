package reporting

import (
	"retrofit_risk/internal/domain"
	"retrofit_risk/internal/engine"
)

// CashFlowTimeline is the deterministic median-scenario cash-flow series
// included in private envelopes, shaped for direct chart rendering
type CashFlowTimeline struct {
	Years              []int     `json:"years"`
	InitialInvestment  float64   `json:"initial_investment"`
	AnnualInflows      []float64 `json:"annual_inflows"`
	AnnualOutflows     []float64 `json:"annual_outflows"`
	AnnualNetCashFlow  []float64 `json:"annual_net_cash_flow"`
	CumulativeCashFlow []float64 `json:"cumulative_cash_flow"`
	BreakevenYear      *int      `json:"breakeven_year"`
	LoanTerm           int       `json:"loan_term"`
}

// BuildCashFlowTimeline derives the timeline arrays from the median
// scenario's cash-flow breakdown. Year 0 carries the equity outflow and
// no operations; the breakeven year is the first year the cumulative
// position reaches zero, or null when the project never pays back.
func BuildCashFlowTimeline(inputs domain.ProjectInputs, detail *engine.CashFlowDetail) *CashFlowTimeline {
	lifetime := inputs.ProjectLifetime
	timeline := &CashFlowTimeline{
		Years:              make([]int, lifetime+1),
		InitialInvestment:  inputs.Equity(),
		AnnualInflows:      make([]float64, lifetime+1),
		AnnualOutflows:     make([]float64, lifetime+1),
		AnnualNetCashFlow:  make([]float64, lifetime+1),
		CumulativeCashFlow: make([]float64, lifetime+1),
		LoanTerm:           inputs.LoanTermYears,
	}

	timeline.AnnualOutflows[0] = inputs.Equity()
	timeline.AnnualNetCashFlow[0] = detail.Flows[0]
	timeline.CumulativeCashFlow[0] = detail.Flows[0]

	for t := 1; t <= lifetime; t++ {
		timeline.Years[t] = t
		timeline.AnnualInflows[t] = detail.Savings[t]
		timeline.AnnualOutflows[t] = detail.Maintenance[t] + detail.DebtService[t]
		timeline.AnnualNetCashFlow[t] = detail.Flows[t]
		timeline.CumulativeCashFlow[t] = timeline.CumulativeCashFlow[t-1] + detail.Flows[t]
	}

	for t := 0; t <= lifetime; t++ {
		if timeline.CumulativeCashFlow[t] >= 0 {
			year := t
			timeline.BreakevenYear = &year
			break
		}
	}
	return timeline
}

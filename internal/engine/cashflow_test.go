package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrofit_risk/internal/domain"
)

func flatSeries(value float64, length int) []float64 {
	series := make([]float64, length)
	for i := range series {
		series[i] = value
	}
	return series
}

func TestBuildCashFlowDetail_NoLoan(t *testing.T) {
	inputs := domain.ProjectInputs{
		Capex:                 50000,
		AnnualMaintenanceCost: 1500,
		AnnualEnergySavings:   20000,
		ProjectLifetime:       3,
	}
	inflation := flatSeries(0.02, 3)
	rate := flatSeries(0.05, 3)
	electricity := flatSeries(0.30, 3)

	detail := BuildCashFlowDetail(inputs, inflation, rate, electricity)

	require.Len(t, detail.Flows, 4)
	assert.Equal(t, -50000.0, detail.Flows[0])

	// savings = 20000 * 0.30 = 6000; maintenance compounds at 2%
	assert.InDelta(t, 6000, detail.Savings[1], 1e-9)
	assert.InDelta(t, 1500*1.02, detail.Maintenance[1], 1e-9)
	assert.InDelta(t, 1500*1.02*1.02, detail.Maintenance[2], 1e-9)
	assert.InDelta(t, 1500*1.02*1.02*1.02, detail.Maintenance[3], 1e-9)
	assert.Zero(t, detail.DebtService[1])
	assert.InDelta(t, 6000-1500*1.02, detail.Flows[1], 1e-9)
}

func TestBuildCashFlowDetail_ConstantPrincipalLoan(t *testing.T) {
	inputs := domain.ProjectInputs{
		Capex:                 60000,
		AnnualMaintenanceCost: 0,
		AnnualEnergySavings:   27400,
		ProjectLifetime:       5,
		LoanAmount:            25000,
		LoanTermYears:         3,
	}
	inflation := flatSeries(0, 5)
	rate := flatSeries(0.04, 5)
	electricity := flatSeries(0.25, 5)

	detail := BuildCashFlowDetail(inputs, inflation, rate, electricity)

	// Equity outflow is capex minus loan
	assert.Equal(t, -35000.0, detail.Flows[0])

	principal := 25000.0 / 3
	// Year 1: interest on the full balance
	assert.InDelta(t, principal+25000*0.04, detail.DebtService[1], 1e-9)
	// Year 2: one principal repayment already made
	assert.InDelta(t, principal+(25000-principal)*0.04, detail.DebtService[2], 1e-9)
	// Year 3: two principal repayments made
	assert.InDelta(t, principal+(25000-2*principal)*0.04, detail.DebtService[3], 1e-9)
	// Beyond the loan term there is no debt service
	assert.Zero(t, detail.DebtService[4])
	assert.Zero(t, detail.DebtService[5])

	savings := 27400 * 0.25
	assert.InDelta(t, savings-detail.DebtService[1], detail.Flows[1], 1e-9)
	assert.InDelta(t, savings, detail.Flows[4], 1e-9)
}

func TestBuildCashFlowDetail_LoanCoversCapex(t *testing.T) {
	inputs := domain.ProjectInputs{
		Capex:               30000,
		AnnualEnergySavings: 10000,
		ProjectLifetime:     2,
		LoanAmount:          30000,
		LoanTermYears:       2,
	}
	detail := BuildCashFlowDetail(inputs, flatSeries(0, 2), flatSeries(0.05, 2), flatSeries(0.25, 2))

	// Fully debt-financed project has no year-0 outflow
	assert.Zero(t, detail.Flows[0])
}

func TestBuildFlowsInto_MatchesDetail(t *testing.T) {
	inputs := domain.ProjectInputs{
		Capex:                 60000,
		AnnualMaintenanceCost: 2000,
		AnnualEnergySavings:   27400,
		ProjectLifetime:       4,
		LoanAmount:            25000,
		LoanTermYears:         3,
	}
	inflation := []float64{0.02, 0.03, 0.01, 0.02}
	rate := []float64{0.05, 0.04, 0.06, 0.05}
	electricity := []float64{0.25, 0.26, 0.27, 0.28}

	detail := BuildCashFlowDetail(inputs, inflation, rate, electricity)
	flows := make([]float64, 5)
	buildFlowsInto(flows, inputs, inflation, rate, electricity)

	assert.Equal(t, detail.Flows, flows)
}

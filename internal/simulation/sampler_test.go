package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrofit_risk/internal/forecast"
)

func testDistributions(horizon int) *forecast.MarketDistributions {
	forecasts := &forecast.MarketForecasts{
		InflationRate: forecast.ScenarioBands{
			Pessimistic: []float64{0.005}, Moderate: []float64{0.02}, Optimistic: []float64{0.035},
		},
		LoanInterestRate: forecast.ScenarioBands{
			Pessimistic: []float64{0.02}, Moderate: []float64{0.035}, Optimistic: []float64{0.05},
		},
		ElectricityPrice: forecast.ScenarioBands{
			Pessimistic: []float64{0.20}, Moderate: []float64{0.25}, Optimistic: []float64{0.32},
		},
		DiscountRate: forecast.ScalarBands{Pessimistic: 0.03, Moderate: 0.05, Optimistic: 0.07},
	}
	return forecast.BuildDistributions(forecasts, horizon)
}

func TestTrajectorySampler_Shapes(t *testing.T) {
	const n, horizon = 500, 12
	samples := NewTrajectorySampler().Sample(testDistributions(horizon), n, 42)

	require.Equal(t, n, samples.Scenarios)
	require.Equal(t, horizon, samples.Horizon)
	require.Len(t, samples.Inflation, n)
	require.Len(t, samples.LoanRate, n)
	require.Len(t, samples.Electricity, n)
	require.Len(t, samples.Discount, n)
	for i := 0; i < n; i++ {
		require.Len(t, samples.Inflation[i], horizon)
		require.Len(t, samples.Electricity[i], horizon)
	}
}

func TestTrajectorySampler_Deterministic(t *testing.T) {
	dist := testDistributions(10)
	sampler := NewTrajectorySampler()

	first := sampler.Sample(dist, 1000, 42)
	second := sampler.Sample(dist, 1000, 42)

	assert.Equal(t, first.Inflation, second.Inflation)
	assert.Equal(t, first.LoanRate, second.LoanRate)
	assert.Equal(t, first.Electricity, second.Electricity)
	assert.Equal(t, first.Discount, second.Discount)
}

func TestTrajectorySampler_SeedChangesSamples(t *testing.T) {
	dist := testDistributions(10)
	sampler := NewTrajectorySampler()

	first := sampler.Sample(dist, 1000, 42)
	second := sampler.Sample(dist, 1000, 43)

	assert.NotEqual(t, first.Inflation, second.Inflation)
}

func TestTrajectorySampler_Clamps(t *testing.T) {
	// Extreme sigmas force draws deep into the clamped region
	forecasts := &forecast.MarketForecasts{
		InflationRate: forecast.ScenarioBands{
			Pessimistic: []float64{-5}, Moderate: []float64{0}, Optimistic: []float64{5},
		},
		LoanInterestRate: forecast.ScenarioBands{
			Pessimistic: []float64{-5}, Moderate: []float64{0}, Optimistic: []float64{5},
		},
		ElectricityPrice: forecast.ScenarioBands{
			Pessimistic: []float64{1e-12}, Moderate: []float64{0.25}, Optimistic: []float64{100},
		},
		DiscountRate: forecast.ScalarBands{Pessimistic: -5, Moderate: 0, Optimistic: 5},
	}
	dist := forecast.BuildDistributions(forecasts, 5)
	samples := NewTrajectorySampler().Sample(dist, 2000, 7)

	for i := 0; i < samples.Scenarios; i++ {
		assert.GreaterOrEqual(t, samples.Discount[i], MinDiscount)
		for t2 := 0; t2 < samples.Horizon; t2++ {
			assert.GreaterOrEqual(t, samples.Inflation[i][t2], MinInflation)
			assert.GreaterOrEqual(t, samples.LoanRate[i][t2], MinLoanRate)
			assert.GreaterOrEqual(t, samples.Electricity[i][t2], MinElectricity)
		}
	}
}

func TestTrajectorySampler_ElectricityPositive(t *testing.T) {
	samples := NewTrajectorySampler().Sample(testDistributions(20), 5000, 42)

	for i := 0; i < samples.Scenarios; i++ {
		for t2 := 0; t2 < samples.Horizon; t2++ {
			assert.Greater(t, samples.Electricity[i][t2], 0.0)
		}
	}
}

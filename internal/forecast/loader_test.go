package forecast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrofit_risk/pkg/shared"
)

func TestLoadMarketForecasts_Embedded(t *testing.T) {
	forecasts, err := LoadMarketForecasts("")
	require.NoError(t, err)

	assert.NotEmpty(t, forecasts.Version)
	assert.NotEmpty(t, forecasts.InflationRate.Moderate)
	assert.NotEmpty(t, forecasts.ElectricityPrice.Moderate)
	assert.NotEmpty(t, forecasts.LoanInterestRate.Moderate)
	assert.LessOrEqual(t, len(forecasts.InflationRate.Moderate), 30)
}

func TestLoadMarketForecasts_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forecasts.json")
	payload := `{
		"version": "test",
		"inflation_rate": {"pessimistic": [0.01], "moderate": [0.02], "optimistic": [0.03]},
		"electricity_price": {"pessimistic": [0.2], "moderate": [0.25], "optimistic": [0.3]},
		"loan_interest_rate": {"pessimistic": [0.02], "moderate": [0.03], "optimistic": [0.04]},
		"discount_rate": {"pessimistic": 0.03, "moderate": 0.05, "optimistic": 0.07}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	forecasts, err := LoadMarketForecasts(path)
	require.NoError(t, err)
	assert.Equal(t, "test", forecasts.Version)
	assert.Equal(t, []float64{0.25}, forecasts.ElectricityPrice.Moderate)
}

func TestLoadMarketForecasts_MissingFile(t *testing.T) {
	_, err := LoadMarketForecasts("/nonexistent/forecasts.json")
	require.Error(t, err)
}

func TestMarketForecasts_Validate(t *testing.T) {
	valid := func() *MarketForecasts {
		return &MarketForecasts{
			InflationRate:    constantBands(0.01, 0.02, 0.03),
			LoanInterestRate: constantBands(0.02, 0.035, 0.05),
			ElectricityPrice: constantBands(0.20, 0.25, 0.32),
			DiscountRate:     ScalarBands{Pessimistic: 0.03, Moderate: 0.05, Optimistic: 0.07},
		}
	}

	tests := []struct {
		name   string
		mutate func(*MarketForecasts)
	}{
		{"unordered inflation", func(f *MarketForecasts) { f.InflationRate.Pessimistic[0] = 0.05 }},
		{"unordered electricity", func(f *MarketForecasts) { f.ElectricityPrice.Optimistic[0] = 0.1 }},
		{"non-positive electricity", func(f *MarketForecasts) {
			f.ElectricityPrice.Pessimistic[0] = -0.1
		}},
		{"empty band", func(f *MarketForecasts) { f.LoanInterestRate.Moderate = nil }},
		{"mismatched lengths", func(f *MarketForecasts) {
			f.InflationRate.Moderate = []float64{0.02, 0.02}
		}},
		{"unordered discount", func(f *MarketForecasts) { f.DiscountRate.Pessimistic = 0.09 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forecasts := valid()
			tt.mutate(forecasts)

			err := forecasts.Validate()
			require.Error(t, err)

			businessErr, ok := err.(*shared.BusinessError)
			require.True(t, ok)
			assert.Equal(t, shared.CodeInvalidForecast, businessErr.Code)
		})
	}

	require.NoError(t, valid().Validate())
}

package forecast

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"retrofit_risk/pkg/shared"
)

// The shipped tables are a versioned data file rather than in-code
// constants, so forecast updates do not require a rebuild.
//
//go:embed data/market_forecasts.json
var embeddedForecasts []byte

// LoadMarketForecasts returns the three-scenario forecast tables. When path
// is non-empty the tables are read from that file, otherwise the embedded
// dataset is used. The tables are validated before being returned; a service
// must refuse to start when validation fails.
func LoadMarketForecasts(path string) (*MarketForecasts, error) {
	data := embeddedForecasts
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read forecast file %s: %w", path, err)
		}
		data = fileData
	}

	var forecasts MarketForecasts
	if err := json.Unmarshal(data, &forecasts); err != nil {
		return nil, fmt.Errorf("failed to parse market forecasts: %w", err)
	}

	if err := forecasts.Validate(); err != nil {
		return nil, err
	}
	return &forecasts, nil
}

// Validate checks the structural invariants of the forecast tables:
// non-empty bands of equal length, pess <= mod <= opt for every year, and
// strictly positive electricity prices.
func (f *MarketForecasts) Validate() error {
	if err := validateBands("inflation_rate", f.InflationRate, false); err != nil {
		return err
	}
	if err := validateBands("electricity_price", f.ElectricityPrice, true); err != nil {
		return err
	}
	if err := validateBands("loan_interest_rate", f.LoanInterestRate, false); err != nil {
		return err
	}
	d := f.DiscountRate
	if !(d.Pessimistic <= d.Moderate && d.Moderate <= d.Optimistic) {
		return invalidForecast("discount_rate scenarios are not ordered")
	}
	return nil
}

func validateBands(name string, b ScenarioBands, requirePositive bool) error {
	if len(b.Pessimistic) == 0 || len(b.Moderate) == 0 || len(b.Optimistic) == 0 {
		return invalidForecast(fmt.Sprintf("%s has an empty scenario array", name))
	}
	if len(b.Pessimistic) != len(b.Moderate) || len(b.Moderate) != len(b.Optimistic) {
		return invalidForecast(fmt.Sprintf("%s scenario arrays have mismatched lengths", name))
	}
	for t := range b.Moderate {
		if !(b.Pessimistic[t] <= b.Moderate[t] && b.Moderate[t] <= b.Optimistic[t]) {
			return invalidForecast(fmt.Sprintf("%s scenarios are not ordered at year %d", name, t))
		}
		if requirePositive && b.Pessimistic[t] <= 0 {
			return invalidForecast(fmt.Sprintf("%s has a non-positive value at year %d", name, t))
		}
	}
	return nil
}

func invalidForecast(details string) error {
	return shared.NewBusinessErrorWithDetails(shared.CodeInvalidForecast,
		"market forecast tables are invalid", details)
}

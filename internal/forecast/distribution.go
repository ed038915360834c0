package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// z90 is the inverse standard-normal CDF at 0.9. The pessimistic and
// optimistic scenarios are interpreted as the P10 and P90 of each year's
// marginal distribution, so the symmetric band spans 2*z90 standard
// deviations.
var z90 = distuv.UnitNormal.Quantile(0.9)

// BuildDistributions converts the three-scenario tables into per-year
// sampling parameters for a project horizon of `lifetime` years. Bands
// shorter than the horizon are padded by repeating their final element;
// longer bands are truncated. The scalar discount triple is broadcast
// across the horizon.
func BuildDistributions(f *MarketForecasts, lifetime int) *MarketDistributions {
	return &MarketDistributions{
		Horizon:     lifetime,
		Inflation:   normalParams(f.InflationRate, lifetime),
		LoanRate:    normalParams(f.LoanInterestRate, lifetime),
		Electricity: lognormalParams(f.ElectricityPrice, lifetime),
		Discount:    discountParams(f.DiscountRate, lifetime),
	}
}

// normalParams derives mu[t] = moderate[t] and
// sigma[t] = (optimistic[t] - pessimistic[t]) / (2 * z90)
func normalParams(b ScenarioBands, horizon int) DistributionParams {
	pess := padTo(b.Pessimistic, horizon)
	mod := padTo(b.Moderate, horizon)
	opt := padTo(b.Optimistic, horizon)

	mu := make([]float64, horizon)
	sigma := make([]float64, horizon)
	for t := 0; t < horizon; t++ {
		mu[t] = mod[t]
		sigma[t] = (opt[t] - pess[t]) / (2 * z90)
	}
	return DistributionParams{Kind: KindNormal, Mu: mu, Sigma: sigma}
}

// lognormalParams applies the same derivation in log-space, which keeps
// sampled prices positive and reflects multiplicative price dynamics
func lognormalParams(b ScenarioBands, horizon int) DistributionParams {
	pess := padTo(b.Pessimistic, horizon)
	mod := padTo(b.Moderate, horizon)
	opt := padTo(b.Optimistic, horizon)

	mu := make([]float64, horizon)
	sigma := make([]float64, horizon)
	for t := 0; t < horizon; t++ {
		mu[t] = math.Log(mod[t])
		sigma[t] = (math.Log(opt[t]) - math.Log(pess[t])) / (2 * z90)
	}
	return DistributionParams{Kind: KindLognormal, Mu: mu, Sigma: sigma}
}

func discountParams(b ScalarBands, horizon int) DistributionParams {
	mu := make([]float64, horizon)
	sigma := make([]float64, horizon)
	s := (b.Optimistic - b.Pessimistic) / (2 * z90)
	for t := 0; t < horizon; t++ {
		mu[t] = b.Moderate
		sigma[t] = s
	}
	return DistributionParams{Kind: KindNormal, Mu: mu, Sigma: sigma}
}

// padTo repeats the final element out to `horizon` entries, or truncates
func padTo(values []float64, horizon int) []float64 {
	out := make([]float64, horizon)
	for t := 0; t < horizon; t++ {
		if t < len(values) {
			out[t] = values[t]
		} else {
			out[t] = values[len(values)-1]
		}
	}
	return out
}

// MedianPath returns the moderate-scenario trajectory padded to the horizon.
// The aggregation layer uses it to build the deterministic median-scenario
// cash-flow timeline.
func MedianPath(b ScenarioBands, horizon int) []float64 {
	return padTo(b.Moderate, horizon)
}

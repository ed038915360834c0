package reporting

import (
	"math"

	"retrofit_risk/internal/domain"
	"retrofit_risk/internal/engine"
)

// Point-forecast keys that only appear in private envelopes
const (
	KeyMonthlyAvgSavings = "MonthlyAvgSavings"
	KeySuccessRate       = "SuccessRate"
)

// ResultEnvelope is the audience-shaped assessment result. Private
// envelopes carry the cash-flow timeline and the extra point forecasts;
// professional envelopes carry probabilities and chart metadata instead.
type ResultEnvelope struct {
	PointForecasts map[string]*float64      `json:"point_forecasts"`
	Percentiles    map[string]PercentileMap `json:"percentiles"`
	Probabilities  map[string]float64       `json:"probabilities,omitempty"`
	Metadata       *Metadata                `json:"metadata"`
}

// Metadata echoes the resolved inputs and carries the audience-specific
// payload. Loan fields are zero for unleveraged projects.
type Metadata struct {
	NSims                 int     `json:"n_sims"`
	Seed                  int64   `json:"seed"`
	ProjectLifetime       int     `json:"project_lifetime"`
	Capex                 float64 `json:"capex"`
	AnnualMaintenanceCost float64 `json:"annual_maintenance_cost"`
	AnnualEnergySavings   float64 `json:"annual_energy_savings"`
	LoanAmount            float64 `json:"loan_amount"`
	LoanTerm              int     `json:"loan_term"`
	AnnualLoanPayment     float64 `json:"annual_loan_payment"`
	LoanRatePercent       float64 `json:"loan_rate_percent"`
	LowConfidence         bool    `json:"low_confidence"`
	ForecastVersion       string  `json:"forecast_version,omitempty"`

	CashFlowData  *CashFlowTimeline           `json:"cash_flow_data,omitempty"`
	ChartMetadata map[string]*HistogramBundle `json:"chart_metadata,omitempty"`
}

// ShapeParams carries everything the output shaper needs for one request
type ShapeParams struct {
	Inputs          domain.ProjectInputs
	Level           domain.OutputLevel
	Indicators      domain.IndicatorSet
	NSims           int
	Seed            int64
	Vectors         *engine.IndicatorVectors
	MedianDetail    *engine.CashFlowDetail
	MedianLoanRate  float64
	ForecastVersion string
}

// BuildEnvelope aggregates the indicator vectors and assembles the
// audience-specific envelope. All NaN values are scrubbed: point
// forecasts become null, percentile entries are omitted.
func BuildEnvelope(p ShapeParams) *ResultEnvelope {
	lifetime := p.Inputs.ProjectLifetime
	probs := ComputeProbabilities(p.Vectors, lifetime)

	envelope := &ResultEnvelope{
		PointForecasts: make(map[string]*float64),
		Percentiles:    make(map[string]PercentileMap),
		Metadata: &Metadata{
			NSims:                 p.NSims,
			Seed:                  p.Seed,
			ProjectLifetime:       lifetime,
			Capex:                 p.Inputs.Capex,
			AnnualMaintenanceCost: p.Inputs.AnnualMaintenanceCost,
			AnnualEnergySavings:   p.Inputs.AnnualEnergySavings,
			LoanAmount:            p.Inputs.LoanAmount,
			LoanTerm:              p.Inputs.LoanTermYears,
			LowConfidence:         LowConfidence(p.Vectors, p.Indicators),
			ForecastVersion:       p.ForecastVersion,
		},
	}

	if p.Inputs.HasLoan() {
		principal := p.Inputs.LoanAmount / float64(p.Inputs.LoanTermYears)
		envelope.Metadata.AnnualLoanPayment = principal + p.Inputs.LoanAmount*p.MedianLoanRate
		envelope.Metadata.LoanRatePercent = p.MedianLoanRate * 100
	}

	for _, ind := range domain.AllIndicators {
		if !p.Indicators.Contains(ind) {
			continue
		}
		values := p.Vectors.Get(ind)
		envelope.PointForecasts[string(ind)] = nullableFloat(Median(values))
		envelope.Percentiles[string(ind)] = Percentiles(values)
	}

	switch p.Level {
	case domain.OutputProfessional:
		envelope.Probabilities = probs.Keys(lifetime)
		envelope.Metadata.ChartMetadata = buildChartMetadata(p)
	case domain.OutputPrivate:
		monthly := monthlyAvgSavings(p.MedianDetail, lifetime)
		success := probs.NPVPositive
		envelope.PointForecasts[KeyMonthlyAvgSavings] = &monthly
		envelope.PointForecasts[KeySuccessRate] = &success
		envelope.Metadata.CashFlowData = BuildCashFlowTimeline(p.Inputs, p.MedianDetail)
	}

	return envelope
}

func buildChartMetadata(p ShapeParams) map[string]*HistogramBundle {
	charts := make(map[string]*HistogramBundle)
	for _, ind := range domain.AllIndicators {
		if !p.Indicators.Contains(ind) {
			continue
		}
		if bundle := BuildHistogram(ind, p.Vectors.Get(ind)); bundle != nil {
			charts[string(ind)] = bundle
		}
	}
	return charts
}

// monthlyAvgSavings normalizes total median-scenario savings by 12*T
func monthlyAvgSavings(detail *engine.CashFlowDetail, lifetime int) float64 {
	total := 0.0
	for t := 1; t <= lifetime; t++ {
		total += detail.Savings[t]
	}
	return total / (12 * float64(lifetime))
}

func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

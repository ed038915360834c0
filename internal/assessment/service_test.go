package assessment

import (
	"context"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrofit_risk/internal/domain"
	"retrofit_risk/internal/engine"
	"retrofit_risk/internal/forecast"
	"retrofit_risk/pkg/shared"
)

func testService(t *testing.T) *Service {
	t.Helper()
	forecasts, err := forecast.LoadMarketForecasts("")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return NewService(forecasts, engine.NewKernel(0), logger)
}

func allIndicators(t *testing.T) domain.IndicatorSet {
	t.Helper()
	set, err := domain.NewIndicatorSet(nil)
	require.NoError(t, err)
	return set
}

func leveragedInputs() domain.ProjectInputs {
	return domain.ProjectInputs{
		Capex:                 60000,
		AnnualMaintenanceCost: 2000,
		AnnualEnergySavings:   27400,
		ProjectLifetime:       20,
		LoanAmount:            25000,
		LoanTermYears:         15,
	}
}

func defaultOptions(t *testing.T, level domain.OutputLevel) Options {
	return Options{
		NSims:       10000,
		Seed:        DefaultSeed,
		OutputLevel: level,
		Indicators:  allIndicators(t),
	}
}

func TestRunRiskAssessment_LeveragedProfessional(t *testing.T) {
	service := testService(t)

	envelope, err := service.RunRiskAssessment(context.Background(), leveragedInputs(),
		defaultOptions(t, domain.OutputProfessional))
	require.NoError(t, err)

	// A leveraged retrofit with healthy savings succeeds in most of
	// the market ensemble
	successRate := envelope.Probabilities["Pr(NPV > 0)"]
	assert.Greater(t, successRate, 0.80)
	assert.Less(t, successRate, 0.88)

	npvMedian := envelope.Percentiles["NPV"]["P50"]
	assert.Greater(t, npvMedian, 4500.0)
	assert.Less(t, npvMedian, 6500.0)

	require.Len(t, envelope.Metadata.ChartMetadata, 5)
	assert.Nil(t, envelope.Metadata.CashFlowData)
	assert.False(t, envelope.Metadata.LowConfidence)
}

func TestRunRiskAssessment_UnleveragedPrivate(t *testing.T) {
	service := testService(t)
	inputs := leveragedInputs()
	inputs.LoanAmount = 0
	inputs.LoanTermYears = 0

	envelope, err := service.RunRiskAssessment(context.Background(), inputs,
		defaultOptions(t, domain.OutputPrivate))
	require.NoError(t, err)

	require.NotNil(t, envelope.Metadata.CashFlowData)
	assert.Equal(t, 60000.0, envelope.Metadata.CashFlowData.InitialInvestment)
	assert.Greater(t, *envelope.PointForecasts["MonthlyAvgSavings"], 0.0)
	assert.Nil(t, envelope.Probabilities)
	assert.Nil(t, envelope.Metadata.ChartMetadata)

	// SuccessRate equals Pr(NPV > 0) computed on the same ensemble
	professional, err := service.RunRiskAssessment(context.Background(), inputs,
		defaultOptions(t, domain.OutputProfessional))
	require.NoError(t, err)
	assert.Equal(t, professional.Probabilities["Pr(NPV > 0)"], *envelope.PointForecasts["SuccessRate"])
}

func TestRunRiskAssessment_HopelessProject(t *testing.T) {
	service := testService(t)
	inputs := domain.ProjectInputs{
		Capex:                 10000,
		AnnualMaintenanceCost: 0,
		AnnualEnergySavings:   100,
		ProjectLifetime:       20,
	}

	envelope, err := service.RunRiskAssessment(context.Background(), inputs,
		defaultOptions(t, domain.OutputProfessional))
	require.NoError(t, err)

	assert.Less(t, envelope.Probabilities["Pr(NPV > 0)"], 0.05)
	assert.Less(t, envelope.Percentiles["NPV"]["P50"], 0.0)

	// Savings never recover the outlay: the payback median is absent
	// (all scenarios NaN) or beyond the horizon
	if p50, ok := envelope.Percentiles["PBP"]["P50"]; ok {
		assert.Greater(t, p50, 20.0)
	} else {
		assert.Nil(t, envelope.PointForecasts["PBP"])
	}
	assert.True(t, envelope.Metadata.LowConfidence)
}

func TestRunRiskAssessment_BreakevenTimeline(t *testing.T) {
	service := testService(t)
	inputs := domain.ProjectInputs{
		Capex:                 50000,
		AnnualMaintenanceCost: 1500,
		AnnualEnergySavings:   20000,
		ProjectLifetime:       15,
	}

	envelope, err := service.RunRiskAssessment(context.Background(), inputs,
		defaultOptions(t, domain.OutputPrivate))
	require.NoError(t, err)

	timeline := envelope.Metadata.CashFlowData
	require.NotNil(t, timeline)
	require.Len(t, timeline.Years, 16)
	require.NotNil(t, timeline.BreakevenYear)
	assert.GreaterOrEqual(t, *timeline.BreakevenYear, 3)
	assert.LessOrEqual(t, *timeline.BreakevenYear, 10)
}

func TestRunRiskAssessment_Deterministic(t *testing.T) {
	service := testService(t)
	opts := defaultOptions(t, domain.OutputProfessional)

	first, err := service.RunRiskAssessment(context.Background(), leveragedInputs(), opts)
	require.NoError(t, err)
	second, err := service.RunRiskAssessment(context.Background(), leveragedInputs(), opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunRiskAssessment_SeedChangesEnsemble(t *testing.T) {
	service := testService(t)
	opts := defaultOptions(t, domain.OutputProfessional)

	first, err := service.RunRiskAssessment(context.Background(), leveragedInputs(), opts)
	require.NoError(t, err)

	opts.Seed = 7
	second, err := service.RunRiskAssessment(context.Background(), leveragedInputs(), opts)
	require.NoError(t, err)

	assert.NotEqual(t, first.Percentiles["NPV"]["P50"], second.Percentiles["NPV"]["P50"])
}

func TestRunRiskAssessment_PercentilesMonotone(t *testing.T) {
	service := testService(t)

	envelope, err := service.RunRiskAssessment(context.Background(), leveragedInputs(),
		defaultOptions(t, domain.OutputProfessional))
	require.NoError(t, err)

	levels := []string{"P10", "P20", "P30", "P40", "P50", "P60", "P70", "P80", "P90"}
	for indicator, percentiles := range envelope.Percentiles {
		previous := math.Inf(-1)
		for _, level := range levels {
			value, ok := percentiles[level]
			if !ok {
				continue
			}
			assert.GreaterOrEqual(t, value, previous, "%s %s", indicator, level)
			previous = value
		}
	}
}

func TestRunRiskAssessment_ZeroLoanEquivalence(t *testing.T) {
	service := testService(t)
	opts := defaultOptions(t, domain.OutputProfessional)
	opts.NSims = 2000

	inputs := leveragedInputs()
	inputs.LoanAmount = 0
	inputs.LoanTermYears = 0
	withoutLoan, err := service.RunRiskAssessment(context.Background(), inputs, opts)
	require.NoError(t, err)

	inputs.LoanTermYears = 10 // term without amount has no effect
	withIdleTerm, err := service.RunRiskAssessment(context.Background(), inputs, opts)
	require.NoError(t, err)

	assert.Equal(t, withoutLoan.Percentiles, withIdleTerm.Percentiles)
	assert.Equal(t, withoutLoan.Probabilities, withIdleTerm.Probabilities)
}

func TestRunRiskAssessment_InvalidInputs(t *testing.T) {
	service := testService(t)

	tests := []struct {
		name   string
		inputs domain.ProjectInputs
		opts   Options
	}{
		{
			name: "loan exceeds capex",
			inputs: domain.ProjectInputs{
				Capex: 60000, AnnualEnergySavings: 27400, ProjectLifetime: 20,
				LoanAmount: 61000, LoanTermYears: 10,
			},
			opts: defaultOptions(t, domain.OutputPrivate),
		},
		{
			name:   "n_sims below minimum",
			inputs: leveragedInputs(),
			opts: Options{
				NSims: 10, Seed: 42,
				OutputLevel: domain.OutputPrivate, Indicators: allIndicators(t),
			},
		},
		{
			name:   "n_sims above maximum",
			inputs: leveragedInputs(),
			opts: Options{
				NSims: 200000, Seed: 42,
				OutputLevel: domain.OutputPrivate, Indicators: allIndicators(t),
			},
		},
		{
			name:   "unknown output level",
			inputs: leveragedInputs(),
			opts: Options{
				NSims: 10000, Seed: 42,
				OutputLevel: "public", Indicators: allIndicators(t),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.RunRiskAssessment(context.Background(), tt.inputs, tt.opts)
			require.Error(t, err)

			businessErr, ok := err.(*shared.BusinessError)
			require.True(t, ok)
			assert.Equal(t, shared.CodeInvalidInputs, businessErr.Code)
		})
	}
}

func TestRunRiskAssessment_DefaultSimulationCount(t *testing.T) {
	service := testService(t)
	opts := defaultOptions(t, domain.OutputProfessional)
	opts.NSims = 0

	envelope, err := service.RunRiskAssessment(context.Background(), leveragedInputs(), opts)
	require.NoError(t, err)
	assert.Equal(t, DefaultSimulations, envelope.Metadata.NSims)
}

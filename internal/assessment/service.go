package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"retrofit_risk/internal/domain"
	"retrofit_risk/internal/engine"
	"retrofit_risk/internal/forecast"
	"retrofit_risk/internal/reporting"
	"retrofit_risk/internal/simulation"
	"retrofit_risk/pkg/shared"
)

// Default request parameters applied when a caller omits them
const (
	DefaultSimulations = 10000
	DefaultSeed        = 42
)

// Options control a single risk-assessment run
type Options struct {
	NSims       int
	Seed        int64
	OutputLevel domain.OutputLevel
	Indicators  domain.IndicatorSet
	Progress    engine.ProgressFunc
}

// Recorder receives engine-level metrics; satisfied by the monitoring
// collector and nil-safe through the service
type Recorder interface {
	ObserveAssessment(level string, scenarios int, duration time.Duration)
}

// Service is the risk-assessment entry point. It owns the pipeline
// forecast -> distributions -> samples -> indicators -> envelope and is
// safe for concurrent use: the forecast tables are immutable and all
// per-request state is owned by the call.
type Service struct {
	forecasts *forecast.MarketForecasts
	sampler   *simulation.TrajectorySampler
	kernel    *engine.Kernel
	logger    *slog.Logger

	cache    shared.CacheRepository
	cacheTTL time.Duration
	recorder Recorder
}

// NewService creates an assessment service. Cache and recorder may be nil.
func NewService(forecasts *forecast.MarketForecasts, kernel *engine.Kernel, logger *slog.Logger) *Service {
	return &Service{
		forecasts: forecasts,
		sampler:   simulation.NewTrajectorySampler(),
		kernel:    kernel,
		logger:    logger,
	}
}

// WithCache enables result caching. Identical requests are pure
// functions of their parameters, so cached envelopes are exact replays.
func (s *Service) WithCache(cache shared.CacheRepository, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// WithRecorder attaches an engine metrics recorder
func (s *Service) WithRecorder(recorder Recorder) *Service {
	s.recorder = recorder
	return s
}

// RunRiskAssessment validates the inputs, runs the Monte Carlo pipeline
// and returns the audience-shaped envelope
func (s *Service) RunRiskAssessment(ctx context.Context, inputs domain.ProjectInputs, opts Options) (*reporting.ResultEnvelope, error) {
	if opts.NSims == 0 {
		opts.NSims = DefaultSimulations
	}
	if err := s.validate(inputs, opts); err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(inputs, opts)
	if s.cache != nil && opts.Progress == nil {
		var cached reporting.ResultEnvelope
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.logger.Debug("assessment served from cache", "key", cacheKey)
			return &cached, nil
		}
	}

	start := time.Now()
	envelope := s.run(inputs, opts)
	elapsed := time.Since(start)

	s.logger.Info("risk assessment completed",
		"n_sims", opts.NSims,
		"lifetime", inputs.ProjectLifetime,
		"output_level", string(opts.OutputLevel),
		"duration", elapsed,
	)
	if s.recorder != nil {
		s.recorder.ObserveAssessment(string(opts.OutputLevel), opts.NSims, elapsed)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, envelope, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache assessment result", "error", err)
		}
	}
	return envelope, nil
}

// run executes the pipeline on validated inputs
func (s *Service) run(inputs domain.ProjectInputs, opts Options) *reporting.ResultEnvelope {
	lifetime := inputs.ProjectLifetime

	distributions := forecast.BuildDistributions(s.forecasts, lifetime)
	samples := s.sampler.Sample(distributions, opts.NSims, opts.Seed)
	vectors := s.kernel.Run(inputs, samples, opts.Progress)

	// Median scenario: every market variable pinned to its moderate
	// trajectory, evaluated once without sampling
	medianInflation := forecast.MedianPath(s.forecasts.InflationRate, lifetime)
	medianRate := forecast.MedianPath(s.forecasts.LoanInterestRate, lifetime)
	medianElectricity := forecast.MedianPath(s.forecasts.ElectricityPrice, lifetime)
	medianDetail := engine.BuildCashFlowDetail(inputs, medianInflation, medianRate, medianElectricity)

	return reporting.BuildEnvelope(reporting.ShapeParams{
		Inputs:          inputs,
		Level:           opts.OutputLevel,
		Indicators:      opts.Indicators,
		NSims:           opts.NSims,
		Seed:            opts.Seed,
		Vectors:         vectors,
		MedianDetail:    medianDetail,
		MedianLoanRate:  medianRate[0],
		ForecastVersion: s.forecasts.Version,
	})
}

func (s *Service) validate(inputs domain.ProjectInputs, opts Options) error {
	if err := inputs.Validate(); err != nil {
		return err
	}
	if opts.NSims < domain.MinSimulations || opts.NSims > domain.MaxSimulations {
		return shared.NewBusinessErrorWithDetails(shared.CodeInvalidInputs,
			"simulation count out of range",
			fmt.Sprintf("n_sims must be between %d and %d, got %d", domain.MinSimulations, domain.MaxSimulations, opts.NSims))
	}
	if opts.OutputLevel != domain.OutputPrivate && opts.OutputLevel != domain.OutputProfessional {
		return shared.NewBusinessErrorWithDetails(shared.CodeInvalidInputs,
			"unknown output level", string(opts.OutputLevel))
	}
	if len(opts.Indicators) == 0 {
		return shared.NewBusinessErrorWithDetails(shared.CodeInvalidInputs,
			"no indicators requested", "indicators must contain at least one of IRR, NPV, ROI, PBP, DPP")
	}
	return nil
}

// cacheKey is a deterministic digest of everything the envelope depends on
func (s *Service) cacheKey(inputs domain.ProjectInputs, opts Options) string {
	payload := fmt.Sprintf("%s|%.6f|%.6f|%.6f|%d|%.6f|%d|%d|%d|%s|%s",
		s.forecasts.Version,
		inputs.Capex, inputs.AnnualMaintenanceCost, inputs.AnnualEnergySavings,
		inputs.ProjectLifetime, inputs.LoanAmount, inputs.LoanTermYears,
		opts.NSims, opts.Seed, opts.OutputLevel,
		strings.Join(opts.Indicators.Names(), ","),
	)
	digest := sha256.Sum256([]byte(payload))
	return "assessment:" + hex.EncodeToString(digest[:16])
}

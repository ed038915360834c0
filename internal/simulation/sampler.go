package simulation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"retrofit_risk/internal/forecast"
)

// Safety clamps applied element-wise after sampling. They cut off
// pathological tails that would otherwise break present-value math.
const (
	MinInflation   = -0.5
	MinLoanRate    = -0.5
	MinDiscount    = -0.99
	MinElectricity = 1e-9
)

// MarketSamples is the per-request bundle of sampled market trajectories.
// Matrices are scenario-major: variable[i][t] is year t of scenario i.
// Discount holds one draw per scenario; the rate is constant within a
// scenario, so the column-replicated matrix is never materialized.
type MarketSamples struct {
	Scenarios int
	Horizon   int

	Inflation   [][]float64
	LoanRate    [][]float64
	Electricity [][]float64
	Discount    []float64
}

// TrajectorySampler draws market trajectories from year-resolved
// distribution parameters.
//
// Determinism contract: the generator is PCG64 (math/rand/v2 NewPCG)
// seeded from the request seed, and variables are drawn in a fixed order
// (inflation, loan rate, electricity, discount; year-major within each),
// so identical (distributions, n, seed) produce bit-identical samples
// across runs and platforms.
type TrajectorySampler struct{}

// NewTrajectorySampler creates a sampler
func NewTrajectorySampler() *TrajectorySampler {
	return &TrajectorySampler{}
}

// Sample draws n scenarios from the given market distributions
func (s *TrajectorySampler) Sample(dist *forecast.MarketDistributions, n int, seed int64) *MarketSamples {
	src := rand.NewPCG(uint64(seed), uint64(seed))
	horizon := dist.Horizon

	samples := &MarketSamples{
		Scenarios:   n,
		Horizon:     horizon,
		Inflation:   drawNormalMatrix(src, dist.Inflation, n, MinInflation),
		LoanRate:    drawNormalMatrix(src, dist.LoanRate, n, MinLoanRate),
		Electricity: drawLognormalMatrix(src, dist.Electricity, n, MinElectricity),
	}

	// Discount is drawn once per scenario and held constant over the
	// horizon; downstream consumes only this per-scenario value.
	samples.Discount = drawNormalColumn(src, dist.Discount.Mu[0], dist.Discount.Sigma[0], n, MinDiscount)

	return samples
}

// drawNormalMatrix fills an n x T matrix column by column so that the
// draw order is independent of how rows are laid out in memory
func drawNormalMatrix(src rand.Source, params forecast.DistributionParams, n int, floor float64) [][]float64 {
	horizon := params.Horizon()
	matrix := newMatrix(n, horizon)
	for t := 0; t < horizon; t++ {
		dist := distuv.Normal{Mu: params.Mu[t], Sigma: params.Sigma[t], Src: src}
		for i := 0; i < n; i++ {
			matrix[i][t] = math.Max(dist.Rand(), floor)
		}
	}
	return matrix
}

// drawLognormalMatrix samples in log-space and exponentiates, clamping the
// materialized price rather than the log draw
func drawLognormalMatrix(src rand.Source, params forecast.DistributionParams, n int, floor float64) [][]float64 {
	horizon := params.Horizon()
	matrix := newMatrix(n, horizon)
	for t := 0; t < horizon; t++ {
		dist := distuv.Normal{Mu: params.Mu[t], Sigma: params.Sigma[t], Src: src}
		for i := 0; i < n; i++ {
			matrix[i][t] = math.Max(math.Exp(dist.Rand()), floor)
		}
	}
	return matrix
}

func drawNormalColumn(src rand.Source, mu, sigma float64, n int, floor float64) []float64 {
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: src}
	column := make([]float64, n)
	for i := 0; i < n; i++ {
		column[i] = math.Max(dist.Rand(), floor)
	}
	return column
}

// newMatrix allocates an n x T matrix backed by a single contiguous block
func newMatrix(n, horizon int) [][]float64 {
	backing := make([]float64, n*horizon)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = backing[i*horizon : (i+1)*horizon]
	}
	return matrix
}

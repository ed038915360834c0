package engine

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"retrofit_risk/internal/domain"
	"retrofit_risk/internal/simulation"
)

// IndicatorVectors holds the per-scenario indicator results. Every slice
// has length n_sims; NaN marks an infeasible scenario.
type IndicatorVectors struct {
	NPV []float64
	IRR []float64
	ROI []float64
	PBP []float64
	DPP []float64
}

// Get returns the vector for one indicator
func (v *IndicatorVectors) Get(ind domain.Indicator) []float64 {
	switch ind {
	case domain.IndicatorNPV:
		return v.NPV
	case domain.IndicatorIRR:
		return v.IRR
	case domain.IndicatorROI:
		return v.ROI
	case domain.IndicatorPBP:
		return v.PBP
	case domain.IndicatorDPP:
		return v.DPP
	}
	return nil
}

// ProgressFunc receives chunk-completion updates while a run is in flight
type ProgressFunc func(completed, total int)

// Kernel evaluates the five indicators across a sampled scenario ensemble.
// It is stateless beyond per-worker scratch space; scenarios are split
// into contiguous row chunks and each chunk is processed by one worker,
// so results are deterministic regardless of worker count.
type Kernel struct {
	workers int
}

// NewKernel creates a kernel with the given worker count; zero or
// negative selects one worker per CPU
func NewKernel(workers int) *Kernel {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Kernel{workers: workers}
}

// Run computes all five indicator vectors for the sampled ensemble.
// A failure inside one scenario yields NaN in that scenario's slots and
// never poisons the others.
func (k *Kernel) Run(inputs domain.ProjectInputs, samples *simulation.MarketSamples, progress ProgressFunc) *IndicatorVectors {
	n := samples.Scenarios
	vectors := &IndicatorVectors{
		NPV: make([]float64, n),
		IRR: make([]float64, n),
		ROI: make([]float64, n),
		PBP: make([]float64, n),
		DPP: make([]float64, n),
	}

	workers := k.workers
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	var completed atomic.Int64
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			flows := make([]float64, inputs.ProjectLifetime+1)
			for i := start; i < end; i++ {
				k.runScenario(i, inputs, samples, flows, vectors)
			}
			done := completed.Add(int64(end - start))
			if progress != nil {
				progress(int(done), n)
			}
		}(start, end)
	}
	wg.Wait()

	return vectors
}

// runScenario evaluates one row. Panics are contained here and converted
// to NaN across all five indicators for the row.
func (k *Kernel) runScenario(i int, inputs domain.ProjectInputs, samples *simulation.MarketSamples, flows []float64, vectors *IndicatorVectors) {
	defer func() {
		if recovered := recover(); recovered != nil {
			nan := math.NaN()
			vectors.NPV[i], vectors.IRR[i], vectors.ROI[i] = nan, nan, nan
			vectors.PBP[i], vectors.DPP[i] = nan, nan
		}
	}()

	buildFlowsInto(flows, inputs, samples.Inflation[i], samples.LoanRate[i], samples.Electricity[i])

	if allZeroAfterYearZero(flows) {
		nan := math.NaN()
		vectors.NPV[i], vectors.IRR[i], vectors.ROI[i] = nan, nan, nan
		vectors.PBP[i], vectors.DPP[i] = nan, nan
		return
	}

	discount := samples.Discount[i]
	vectors.NPV[i] = NPV(discount, flows)
	vectors.IRR[i] = IRR(flows)
	vectors.ROI[i] = ROI(flows)
	vectors.PBP[i] = SimplePayback(flows)
	vectors.DPP[i] = DiscountedPayback(flows, discount)
}

func allZeroAfterYearZero(flows []float64) bool {
	for _, flow := range flows[1:] {
		if flow != 0 {
			return false
		}
	}
	return true
}

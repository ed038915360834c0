package reporting

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"retrofit_risk/internal/domain"
	"retrofit_risk/internal/engine"
)

// LowConfidenceThreshold is the minimum number of finite scenarios an
// indicator needs before its statistics are considered well supported
const LowConfidenceThreshold = 100

// percentileLevels are the deciles reported for every indicator
var percentileLevels = []int{10, 20, 30, 40, 50, 60, 70, 80, 90}

// PercentileMap maps "P10".."P90" to values; entries that would be NaN
// are omitted so the wire format stays NaN-free
type PercentileMap map[string]float64

// Percentiles computes the decile map over the finite entries of values.
// An all-NaN vector yields an empty map.
func Percentiles(values []float64) PercentileMap {
	finite := finiteValues(values)
	result := make(PercentileMap, len(percentileLevels))
	if len(finite) == 0 {
		return result
	}
	sort.Float64s(finite)
	for _, level := range percentileLevels {
		result[fmt.Sprintf("P%d", level)] = stat.Quantile(float64(level)/100, stat.LinInterp, finite, nil)
	}
	return result
}

// Median returns the P50 over the finite entries, or NaN when none exist
func Median(values []float64) float64 {
	finite := finiteValues(values)
	if len(finite) == 0 {
		return math.NaN()
	}
	sort.Float64s(finite)
	return stat.Quantile(0.5, stat.LinInterp, finite, nil)
}

// FiniteCount returns the number of non-NaN entries
func FiniteCount(values []float64) int {
	count := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			count++
		}
	}
	return count
}

func finiteValues(values []float64) []float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	return finite
}

// Probabilities holds the three success probabilities of an ensemble
type Probabilities struct {
	NPVPositive       float64
	PBPWithinLifetime float64
	DPPWithinLifetime float64
}

// ComputeProbabilities derives the success probabilities from the
// indicator vectors. Pr(NPV > 0) is taken over finite NPV scenarios;
// the payback probabilities count NaN scenarios as failures, so their
// denominator is the full ensemble size.
func ComputeProbabilities(vectors *engine.IndicatorVectors, lifetime int) Probabilities {
	n := len(vectors.NPV)

	finiteNPV, positiveNPV := 0, 0
	for _, v := range vectors.NPV {
		if math.IsNaN(v) {
			continue
		}
		finiteNPV++
		if v > 0 {
			positiveNPV++
		}
	}

	probs := Probabilities{}
	if finiteNPV > 0 {
		probs.NPVPositive = float64(positiveNPV) / float64(finiteNPV)
	}
	probs.PBPWithinLifetime = shareBelow(vectors.PBP, float64(lifetime), n)
	probs.DPPWithinLifetime = shareBelow(vectors.DPP, float64(lifetime), n)
	return probs
}

func shareBelow(values []float64, bound float64, n int) float64 {
	if n == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if !math.IsNaN(v) && v < bound {
			count++
		}
	}
	return float64(count) / float64(n)
}

// Keys returns the wire labels for the probability entries, e.g.
// "Pr(PBP < 20y)" for a 20-year project
func (p Probabilities) Keys(lifetime int) map[string]float64 {
	return map[string]float64{
		"Pr(NPV > 0)": p.NPVPositive,
		fmt.Sprintf("Pr(PBP < %dy)", lifetime): p.PBPWithinLifetime,
		fmt.Sprintf("Pr(DPP < %dy)", lifetime): p.DPPWithinLifetime,
	}
}

// LowConfidence reports whether any requested indicator is backed by
// fewer finite scenarios than the confidence threshold
func LowConfidence(vectors *engine.IndicatorVectors, indicators domain.IndicatorSet) bool {
	for _, ind := range domain.AllIndicators {
		if !indicators.Contains(ind) {
			continue
		}
		if FiniteCount(vectors.Get(ind)) < LowConfidenceThreshold {
			return true
		}
	}
	return false
}

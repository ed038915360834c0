package reporting

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"retrofit_risk/internal/domain"
)

// HistogramBins is the bin count for every indicator histogram
const HistogramBins = 30

// Outlier trim bounds: bins span the 0.5th to 99.5th percentile of the
// finite values so a handful of extreme scenarios cannot flatten the chart
const (
	histogramTrimLow  = 0.005
	histogramTrimHigh = 0.995
)

// HistogramBundle describes one indicator's distribution in a form a
// downstream client can render directly
type HistogramBundle struct {
	Bins        BinData      `json:"bins"`
	Statistics  SummaryStats `json:"statistics"`
	ChartConfig ChartConfig  `json:"chart_config"`
}

// BinData holds equal-width bins: 31 edges, 30 centers and counts
type BinData struct {
	Centers []float64 `json:"centers"`
	Counts  []int     `json:"counts"`
	Edges   []float64 `json:"edges"`
}

// SummaryStats are computed over all finite values, not just the
// trimmed histogram range
type SummaryStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	P10  float64 `json:"P10"`
	P50  float64 `json:"P50"`
	P90  float64 `json:"P90"`
}

// ChartConfig carries human-readable axis and title strings
type ChartConfig struct {
	XLabel string `json:"xlabel"`
	YLabel string `json:"ylabel"`
	Title  string `json:"title"`
}

// BuildHistogram bins the finite entries of values into 30 equal-width
// bins between the trimmed percentile bounds. Returns nil when no finite
// values exist, in which case the indicator is omitted from the envelope.
func BuildHistogram(ind domain.Indicator, values []float64) *HistogramBundle {
	finite := finiteValues(values)
	if len(finite) == 0 {
		return nil
	}
	sort.Float64s(finite)

	lo := stat.Quantile(histogramTrimLow, stat.LinInterp, finite, nil)
	hi := stat.Quantile(histogramTrimHigh, stat.LinInterp, finite, nil)
	if hi <= lo {
		// Degenerate distribution; give the single value a unit-width bin
		hi = lo + 1
	}

	edges := make([]float64, HistogramBins+1)
	floats.Span(edges, lo, hi)

	// stat.Histogram buckets half-open intervals; keep samples strictly
	// below the top edge and fold the ones equal to it into the last bin
	trimmed := finite[:0:0]
	topEdgeCount := 0
	for _, v := range finite {
		switch {
		case v >= lo && v < hi:
			trimmed = append(trimmed, v)
		case v == hi:
			topEdgeCount++
		}
	}

	rawCounts := make([]float64, HistogramBins)
	stat.Histogram(rawCounts, edges, trimmed, nil)
	rawCounts[HistogramBins-1] += float64(topEdgeCount)

	counts := make([]int, HistogramBins)
	centers := make([]float64, HistogramBins)
	for i := range counts {
		counts[i] = int(rawCounts[i])
		centers[i] = (edges[i] + edges[i+1]) / 2
	}

	return &HistogramBundle{
		Bins: BinData{Centers: centers, Counts: counts, Edges: edges},
		Statistics: SummaryStats{
			Mean: stat.Mean(finite, nil),
			Std:  stat.StdDev(finite, nil),
			P10:  stat.Quantile(0.1, stat.LinInterp, finite, nil),
			P50:  stat.Quantile(0.5, stat.LinInterp, finite, nil),
			P90:  stat.Quantile(0.9, stat.LinInterp, finite, nil),
		},
		ChartConfig: chartConfig(ind),
	}
}

func chartConfig(ind domain.Indicator) ChartConfig {
	labels := map[domain.Indicator]struct {
		xlabel string
		title  string
	}{
		domain.IndicatorNPV: {"Net present value (EUR)", "Net present value across market scenarios"},
		domain.IndicatorIRR: {"Internal rate of return", "Internal rate of return across market scenarios"},
		domain.IndicatorROI: {"Return on investment", "Return on investment across market scenarios"},
		domain.IndicatorPBP: {"Payback period (years)", "Simple payback period across market scenarios"},
		domain.IndicatorDPP: {"Discounted payback period (years)", "Discounted payback period across market scenarios"},
	}
	label, ok := labels[ind]
	if !ok {
		label.xlabel = string(ind)
		label.title = fmt.Sprintf("%s across market scenarios", ind)
	}
	return ChartConfig{
		XLabel: label.xlabel,
		YLabel: "Scenario count",
		Title:  label.title,
	}
}

package domain

import (
	"fmt"

	"retrofit_risk/pkg/shared"
)

// Indicator identifies one of the five financial indicators
type Indicator string

const (
	IndicatorIRR Indicator = "IRR"
	IndicatorNPV Indicator = "NPV"
	IndicatorROI Indicator = "ROI"
	IndicatorPBP Indicator = "PBP"
	IndicatorDPP Indicator = "DPP"
)

// AllIndicators lists the five indicators in canonical output order
var AllIndicators = []Indicator{IndicatorNPV, IndicatorIRR, IndicatorROI, IndicatorPBP, IndicatorDPP}

// OutputLevel selects the audience-specific envelope shape
type OutputLevel string

const (
	OutputPrivate      OutputLevel = "private"
	OutputProfessional OutputLevel = "professional"
)

// ParseOutputLevel validates an output level string
func ParseOutputLevel(s string) (OutputLevel, error) {
	switch OutputLevel(s) {
	case OutputPrivate, OutputProfessional:
		return OutputLevel(s), nil
	}
	return "", shared.NewBusinessErrorWithDetails(shared.CodeInvalidInputs,
		"unknown output level", fmt.Sprintf("output_level must be private or professional, got %q", s))
}

// IndicatorSet is the subset of indicators requested for an assessment
type IndicatorSet map[Indicator]bool

// NewIndicatorSet builds a set from string names; an empty list means all five
func NewIndicatorSet(names []string) (IndicatorSet, error) {
	set := make(IndicatorSet, len(AllIndicators))
	if len(names) == 0 {
		for _, ind := range AllIndicators {
			set[ind] = true
		}
		return set, nil
	}
	for _, name := range names {
		switch ind := Indicator(name); ind {
		case IndicatorIRR, IndicatorNPV, IndicatorROI, IndicatorPBP, IndicatorDPP:
			set[ind] = true
		default:
			return nil, shared.NewBusinessErrorWithDetails(shared.CodeInvalidInputs,
				"unknown indicator", fmt.Sprintf("indicator %q is not one of IRR, NPV, ROI, PBP, DPP", name))
		}
	}
	return set, nil
}

// Contains reports whether the indicator was requested
func (s IndicatorSet) Contains(ind Indicator) bool {
	return s[ind]
}

// Names returns the requested indicators in canonical order
func (s IndicatorSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, ind := range AllIndicators {
		if s[ind] {
			names = append(names, string(ind))
		}
	}
	return names
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrofit_risk/pkg/shared"
)

func validInputs() ProjectInputs {
	return ProjectInputs{
		Capex:                 60000,
		AnnualMaintenanceCost: 2000,
		AnnualEnergySavings:   27400,
		ProjectLifetime:       20,
		LoanAmount:            25000,
		LoanTermYears:         15,
	}
}

func TestProjectInputs_Validate_Valid(t *testing.T) {
	require.NoError(t, validInputs().Validate())
}

func TestProjectInputs_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProjectInputs)
	}{
		{"zero capex", func(p *ProjectInputs) { p.Capex = 0 }},
		{"negative capex", func(p *ProjectInputs) { p.Capex = -1 }},
		{"negative maintenance", func(p *ProjectInputs) { p.AnnualMaintenanceCost = -10 }},
		{"zero savings", func(p *ProjectInputs) { p.AnnualEnergySavings = 0 }},
		{"lifetime too short", func(p *ProjectInputs) { p.ProjectLifetime = 0 }},
		{"lifetime too long", func(p *ProjectInputs) { p.ProjectLifetime = 31 }},
		{"negative loan", func(p *ProjectInputs) { p.LoanAmount = -100 }},
		{"loan exceeds capex", func(p *ProjectInputs) { p.LoanAmount = 61000 }},
		{"loan term exceeds lifetime", func(p *ProjectInputs) { p.LoanTermYears = 21 }},
		{"loan without term", func(p *ProjectInputs) { p.LoanAmount = 10000; p.LoanTermYears = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := validInputs()
			tt.mutate(&inputs)

			err := inputs.Validate()
			require.Error(t, err)

			businessErr, ok := err.(*shared.BusinessError)
			require.True(t, ok)
			assert.Equal(t, shared.CodeInvalidInputs, businessErr.Code)
		})
	}
}

func TestProjectInputs_Validate_NoLoan(t *testing.T) {
	inputs := validInputs()
	inputs.LoanAmount = 0
	inputs.LoanTermYears = 0

	require.NoError(t, inputs.Validate())
	assert.False(t, inputs.HasLoan())
	assert.Equal(t, inputs.Capex, inputs.Equity())
}

func TestNewIndicatorSet_Defaults(t *testing.T) {
	set, err := NewIndicatorSet(nil)
	require.NoError(t, err)
	assert.Len(t, set, 5)
	for _, ind := range AllIndicators {
		assert.True(t, set.Contains(ind))
	}
}

func TestNewIndicatorSet_Subset(t *testing.T) {
	set, err := NewIndicatorSet([]string{"NPV", "PBP"})
	require.NoError(t, err)
	assert.True(t, set.Contains(IndicatorNPV))
	assert.True(t, set.Contains(IndicatorPBP))
	assert.False(t, set.Contains(IndicatorIRR))
	assert.Equal(t, []string{"NPV", "PBP"}, set.Names())
}

func TestNewIndicatorSet_Unknown(t *testing.T) {
	_, err := NewIndicatorSet([]string{"WACC"})
	require.Error(t, err)
}

func TestParseOutputLevel(t *testing.T) {
	level, err := ParseOutputLevel("private")
	require.NoError(t, err)
	assert.Equal(t, OutputPrivate, level)

	level, err = ParseOutputLevel("professional")
	require.NoError(t, err)
	assert.Equal(t, OutputProfessional, level)

	_, err = ParseOutputLevel("public")
	require.Error(t, err)
}

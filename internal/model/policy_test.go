package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_At(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		day    int
		want   float64
	}{
		{"constant before origin", Constant(0.16), -30, 0.16},
		{"constant after origin", Constant(0.16), 400, 0.16},
		{"ramp before origin", SanctionsRamp(0.14), -10, 0},
		{"ramp at origin", SanctionsRamp(0.14), 0, 0.001},
		{"ramp midway", SanctionsRamp(0.14), 90, 0.001 + (0.14-0.001)*0.5},
		{"ramp capped", SanctionsRamp(0.14), 500, 0.14},
		{"zero ramp stays zero", SanctionsRamp(0), 10, 0},
		{"table before origin", Table(0.1, 0.2), -1, 0},
		{"table inside", Table(0.1, 0.2, 0.3), 1, 0.2},
		{"table holds last", Table(0.1, 0.2, 0.3), 99, 0.3},
		{"empty table", Table(), 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.policy.At(tt.day), 1e-12)
		})
	}
}

func TestPolicy_StaysWithinMax(t *testing.T) {
	policies := []Policy{Constant(0.3), SanctionsRamp(0.21), Ramp(0.05, 0.4, 30), Table(0, 0.5, 0.2)}
	for _, p := range policies {
		for day := -200; day < 400; day++ {
			v := p.At(day)
			if v < 0 || v > p.Max() {
				t.Fatalf("%+v at %d = %v outside [0, %v]", p, day, v, p.Max())
			}
		}
	}
}

func TestPolicy_TableIsCopied(t *testing.T) {
	src := []float64{0.1, 0.2}
	p := Table(src...)
	src[0] = 9
	assert.Equal(t, 0.1, p.At(0))
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, Constant(0.2).Validate("aid"))
	assert.NoError(t, SanctionsRamp(0.2).Validate("sanctions"))
	assert.True(t, errors.Is(Constant(-1).Validate("aid"), ErrInvalidConfiguration))
	assert.Error(t, Table(0.1, -0.2).Validate("aid"))
}

package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoefficients_GetSetRoundTrip(t *testing.T) {
	names := CoefficientNames()
	require.Len(t, names, 16)

	var c Coefficients
	for i, name := range names {
		require.NoError(t, c.Set(name, float64(i+1)))
	}
	for i, name := range names {
		v, err := c.Get(name)
		require.NoError(t, err)
		assert.Equal(t, float64(i+1), v, name)
	}
	assert.Equal(t, 1.0, c.ProductionEfficiency)
	assert.Equal(t, 16.0, c.Epsilon)
}

func TestCoefficients_UnknownField(t *testing.T) {
	var c Coefficients
	assert.Error(t, c.Set("gravity", 9.81))
	_, err := c.Get("gravity")
	assert.Error(t, err)
}

func TestCoefficients_Validate(t *testing.T) {
	require.NoError(t, DefaultCoefficients().Validate())

	tests := []struct {
		field string
		value float64
	}{
		{"military_attrition_coefficient", -1},
		{"elasticity_coefficient", math.NaN()},
		{"sanctions_delay", math.Inf(1)},
		{"epsilon", 0},
		{"production_efficiency", 0},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			c := DefaultCoefficients()
			require.NoError(t, c.Set(tt.field, tt.value))
			err := c.Validate()
			require.Error(t, err)

			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

package montecarlo

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/san-kum/conflictsim/internal/model"
	"gonum.org/v1/gonum/stat/distuv"
)

type SamplerKind string

const (
	SamplerFixed     SamplerKind = "fixed"
	SamplerUniform   SamplerKind = "uniform"
	SamplerNormal    SamplerKind = "normal"
	SamplerNormalInt SamplerKind = "normal_int"
)

// Sampler is a closed-form distribution for one scalar. The zero value is
// unset and leaves the configured value in place.
type Sampler struct {
	Kind   SamplerKind `yaml:"kind" json:"kind"`
	Value  float64     `yaml:"value,omitempty" json:"value,omitempty"`
	Min    float64     `yaml:"min,omitempty" json:"min,omitempty"`
	Max    float64     `yaml:"max,omitempty" json:"max,omitempty"`
	Mean   float64     `yaml:"mean,omitempty" json:"mean,omitempty"`
	StdDev float64     `yaml:"std_dev,omitempty" json:"std_dev,omitempty"`
}

func Fixed(v float64) Sampler { return Sampler{Kind: SamplerFixed, Value: v} }

func Uniform(min, max float64) Sampler { return Sampler{Kind: SamplerUniform, Min: min, Max: max} }

func Normal(mean, sd float64) Sampler { return Sampler{Kind: SamplerNormal, Mean: mean, StdDev: sd} }

// NormalInt truncates a normal draw toward zero and floors it at zero. Used
// for day counts.
func NormalInt(mean, sd float64) Sampler {
	return Sampler{Kind: SamplerNormalInt, Mean: mean, StdDev: sd}
}

func (s Sampler) IsSet() bool { return s.Kind != "" }

// Sample draws one value. An unset sampler returns fallback.
func (s Sampler) Sample(src rand.Source, fallback float64) float64 {
	switch s.Kind {
	case SamplerFixed:
		return s.Value
	case SamplerUniform:
		if s.Max == s.Min {
			return s.Min
		}
		return distuv.Uniform{Min: s.Min, Max: s.Max, Src: src}.Rand()
	case SamplerNormal:
		if s.StdDev == 0 {
			return s.Mean
		}
		return distuv.Normal{Mu: s.Mean, Sigma: s.StdDev, Src: src}.Rand()
	case SamplerNormalInt:
		v := s.Mean
		if s.StdDev != 0 {
			v = distuv.Normal{Mu: s.Mean, Sigma: s.StdDev, Src: src}.Rand()
		}
		return math.Max(0, math.Trunc(v))
	default:
		return fallback
	}
}

func (s Sampler) Validate(field string) error {
	switch s.Kind {
	case "", SamplerFixed:
		return nil
	case SamplerUniform:
		if s.Max < s.Min {
			return fmt.Errorf("%w: %s: uniform max %v below min %v", ErrInvalidScenario, field, s.Max, s.Min)
		}
	case SamplerNormal, SamplerNormalInt:
		if s.StdDev < 0 {
			return fmt.Errorf("%w: %s: negative std_dev %v", ErrInvalidScenario, field, s.StdDev)
		}
	default:
		return fmt.Errorf("%w: %s: unknown sampler kind %q", ErrInvalidScenario, field, s.Kind)
	}
	return nil
}

// Distribution maps coefficient names to samplers. Coefficients without a
// sampler keep their default value.
type Distribution map[string]Sampler

// DefaultDistribution holds the standard sampling ranges.
func DefaultDistribution() Distribution {
	return Distribution{
		"production_efficiency":                        Fixed(8),
		"military_capability_weight":                   Uniform(5e-5, 1e-3),
		"sanctions_delay":                              NormalInt(60, 10),
		"foreign_aid_delay":                            NormalInt(60, 10),
		"elasticity_coefficient":                       Uniform(1e-4, 8e-4),
		"military_technology_investment_coefficient":   Uniform(5e-4, 5e-3),
		"industrial_technology_investment_coefficient": Uniform(1e-4, 1e-3),
		"military_industrial_investment_coefficient":   Uniform(1e-1, 1e0),
		"civilian_industrial_investment_coefficient":   Uniform(1e-2, 5e-1),
		"military_consumption_cost_coefficient":        Uniform(1e-4, 1e-3),
		"military_demand_coefficient":                  Uniform(1, 10),
		"military_attrition_coefficient":               Uniform(1e-6, 5e-4),
		"industrial_attrition_coefficient":             Uniform(8e-8, 1e-6),
		"spending_scaling_coefficient":                 Uniform(1e-1, 1e0),
		"conflict_intensity":                           Fixed(2.5),
		"epsilon":                                      Fixed(1e-10),
	}
}

// Sample draws a coefficient set. Fields are drawn in the fixed order of
// model.CoefficientNames so a seed always yields the same set.
func (d Distribution) Sample(src rand.Source) model.Coefficients {
	c := model.DefaultCoefficients()
	for _, name := range model.CoefficientNames() {
		s, ok := d[name]
		if !ok {
			continue
		}
		v, _ := c.Get(name)
		c.Set(name, s.Sample(src, v))
	}
	return c
}

func (d Distribution) Validate() error {
	known := make(map[string]bool)
	for _, name := range model.CoefficientNames() {
		known[name] = true
	}

	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !known[name] {
			return fmt.Errorf("%w: unknown coefficient %q", ErrInvalidScenario, name)
		}
		if err := d[name].Validate("coefficients." + name); err != nil {
			return err
		}
	}
	return nil
}

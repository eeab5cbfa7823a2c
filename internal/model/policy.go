package model

import (
	"fmt"
	"math"
)

type PolicyKind string

const (
	PolicyConstant PolicyKind = "constant"
	PolicyRamp     PolicyKind = "ramp"
	PolicyTable    PolicyKind = "table"
)

const (
	SanctionsFloor    = 0.001
	SanctionsRampDays = 180
)

// Policy is an exogenous level as a function of the day offset from the
// policy's (delayed) origin. It is a plain value so trials can be copied
// across workers.
type Policy struct {
	Kind     PolicyKind `yaml:"kind" json:"kind"`
	Level    float64    `yaml:"level" json:"level"`
	Floor    float64    `yaml:"floor,omitempty" json:"floor,omitempty"`
	RampDays int        `yaml:"ramp_days,omitempty" json:"ramp_days,omitempty"`
	Table    []float64  `yaml:"table,omitempty" json:"table,omitempty"`
}

func Constant(level float64) Policy {
	return Policy{Kind: PolicyConstant, Level: level}
}

// Ramp rises linearly from floor at day 0 to level at day days and holds.
func Ramp(floor, level float64, days int) Policy {
	return Policy{Kind: PolicyRamp, Floor: floor, Level: level, RampDays: days}
}

// SanctionsRamp is the standard 180-day sanctions build-up to level.
func SanctionsRamp(level float64) Policy {
	return Ramp(SanctionsFloor, level, SanctionsRampDays)
}

// Table holds values[day], zero before day 0 and the last value after the end.
func Table(values ...float64) Policy {
	v := make([]float64, len(values))
	copy(v, values)
	return Policy{Kind: PolicyTable, Table: v}
}

// At returns the policy level at the given day offset, always in [0, Max()].
func (p Policy) At(day int) float64 {
	switch p.Kind {
	case PolicyRamp:
		v := p.Floor + (p.Level-p.Floor)*float64(day)/float64(p.RampDays)
		return math.Max(0, math.Min(p.Level, v))
	case PolicyTable:
		if day < 0 || len(p.Table) == 0 {
			return 0
		}
		if day >= len(p.Table) {
			return p.Table[len(p.Table)-1]
		}
		return p.Table[day]
	default:
		return p.Level
	}
}

func (p Policy) Max() float64 {
	if p.Kind != PolicyTable {
		return p.Level
	}
	m := 0.0
	for _, v := range p.Table {
		m = math.Max(m, v)
	}
	return m
}

func (p Policy) Validate(field string) error {
	switch p.Kind {
	case PolicyConstant, "":
	case PolicyRamp:
		if p.RampDays <= 0 {
			return invalid(field+".ramp_days", p.RampDays, "must be positive")
		}
		if p.Floor < 0 {
			return invalid(field+".floor", p.Floor, "must be non-negative")
		}
	case PolicyTable:
		for i, v := range p.Table {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid(fmt.Sprintf("%s.table[%d]", field, i), v, "must be finite and non-negative")
			}
		}
		return nil
	default:
		return invalid(field+".kind", p.Kind, "unknown policy kind")
	}
	if p.Level < 0 || math.IsNaN(p.Level) || math.IsInf(p.Level, 0) {
		return invalid(field+".level", p.Level, "must be finite and non-negative")
	}
	return nil
}

package sim

import (
	"github.com/san-kum/conflictsim/internal/model"
)

// Reason explains why a trial ended.
type Reason string

const (
	ReasonNone                Reason = "none"
	ReasonEconomicCollapse    Reason = "Enemy Economic Collapse"
	ReasonMilitaryCollapse    Reason = "Enemy Military Collapse"
	ReasonMilitarySuperiority Reason = "Military Superiority"
)

// NoWinner is the winner of a trial that reached the horizon.
const NoWinner = "none"

// Side selects one of the two coupled actors.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideB {
		return "b"
	}
	return "a"
}

// Pick returns the actor on side s.
func (s Side) Pick(a, b *model.Belligerent) *model.Belligerent {
	if s == SideB {
		return b
	}
	return a
}

// Outcome is produced exactly once per trial. Length is the day on which the
// war ended, or the horizon when no condition fired.
type Outcome struct {
	Length int    `json:"length"`
	Winner string `json:"winner"`
	Reason Reason `json:"reason"`
}

func (o Outcome) Inconclusive() bool {
	return o.Reason == ReasonNone
}

// Years is the conflict length in years.
func (o Outcome) Years() float64 {
	return float64(o.Length) / 365.0
}

type Observer interface {
	OnStep(t int, a, b *model.Belligerent)
}

type Metric interface {
	Name() string
	Observe(t int, a, b *model.Belligerent)
	Value() float64
	Reset()
}

type Config struct {
	Horizon       int  `yaml:"horizon" json:"horizon"`
	ValidateState bool `yaml:"validate_state" json:"validate_state"`
}

func DefaultConfig() Config {
	return Config{
		Horizon:       3600,
		ValidateState: true,
	}
}

type Result struct {
	A          *model.Belligerent
	B          *model.Belligerent
	Outcome    Outcome
	Metrics    map[string]float64
	StepsTaken int
}

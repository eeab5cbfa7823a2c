package sim

import "github.com/san-kum/conflictsim/internal/model"

// Schedule supplies the scenario-level time-varying inputs. It is consulted
// once per day before either side updates.
type Schedule interface {
	ConflictIntensity(t int) float64
	Apply(t int, a, b *model.Belligerent)
}

// PhasedSchedule ramps conflict intensity down from its opening value and
// drives attacking intensities through three phases: fixed opening values,
// a linear transition of a toward its baseline with b = 1 - a, then hold.
//
// OpeningConflict is taken from the trial's conflict_intensity coefficient.
type PhasedSchedule struct {
	OpeningConflict  float64 `yaml:"-" json:"opening_conflict"`
	BaselineConflict float64 `yaml:"baseline_conflict" json:"baseline_conflict"`
	ConflictRampDays int     `yaml:"conflict_ramp_days" json:"conflict_ramp_days"`

	OpeningDays     int     `yaml:"opening_days" json:"opening_days"`
	OpeningAttackA  float64 `yaml:"opening_attack_a" json:"opening_attack_a"`
	OpeningAttackB  float64 `yaml:"opening_attack_b" json:"opening_attack_b"`
	TransitionDays  int     `yaml:"transition_days" json:"transition_days"`
	BaselineAttackA float64 `yaml:"baseline_attack_a" json:"baseline_attack_a"`
}

// DefaultPhasedSchedule opens at the given conflict intensity and settles a's
// attacking intensity at baselineA.
func DefaultPhasedSchedule(openingConflict, baselineA float64) PhasedSchedule {
	return PhasedSchedule{
		OpeningConflict:  openingConflict,
		BaselineConflict: 1.0,
		ConflictRampDays: 360,
		OpeningDays:      270,
		OpeningAttackA:   0.7,
		OpeningAttackB:   0.25,
		TransitionDays:   270,
		BaselineAttackA:  baselineA,
	}
}

func (p PhasedSchedule) ConflictIntensity(t int) float64 {
	if t > p.ConflictRampDays || p.ConflictRampDays <= 0 {
		return p.BaselineConflict
	}
	return p.OpeningConflict - (p.OpeningConflict-p.BaselineConflict)*float64(t)/float64(p.ConflictRampDays)
}

func (p PhasedSchedule) Apply(t int, a, b *model.Belligerent) {
	switch {
	case t < p.OpeningDays:
		a.SetAttackingIntensity(p.OpeningAttackA)
		b.SetAttackingIntensity(p.OpeningAttackB)
	case t < p.OpeningDays+p.TransitionDays:
		slope := (p.OpeningAttackA - p.BaselineAttackA) / float64(p.TransitionDays)
		ia := p.OpeningAttackA - slope*float64(t-p.OpeningDays)
		a.SetAttackingIntensity(ia)
		b.SetAttackingIntensity(1 - ia)
	}
}

// StaticSchedule holds conflict intensity constant and never overrides
// attacking intensities.
type StaticSchedule struct {
	Conflict float64
}

func (s StaticSchedule) ConflictIntensity(int) float64 { return s.Conflict }

func (StaticSchedule) Apply(int, *model.Belligerent, *model.Belligerent) {}

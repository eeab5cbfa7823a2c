package sim

import (
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	// CollapseFraction of the day-0 economic capital below which an economy has collapsed.
	CollapseFraction = 0.6

	// MilitaryCollapseThreshold is the capability at or below which an army has collapsed.
	MilitaryCollapseThreshold = 15.0

	// SuperiorityRatio is the capability multiple that wins outright.
	SuperiorityRatio = 4.0
)

// Snapshot is the part of an actor's state the termination rules read.
type Snapshot struct {
	Name               string
	EconomicCapital    float64
	BaselineCapital    float64
	MilitaryCapability float64
}

func SnapshotOf(b *model.Belligerent) Snapshot {
	return Snapshot{
		Name:               b.Name(),
		EconomicCapital:    b.EconomicCapital(),
		BaselineCapital:    b.BaselineCapital(),
		MilitaryCapability: b.MilitaryCapability(),
	}
}

func (s Snapshot) economicCollapse() bool {
	return s.EconomicCapital < CollapseFraction*s.BaselineCapital
}

func (s Snapshot) militaryCollapse() bool {
	return s.MilitaryCapability <= MilitaryCollapseThreshold
}

// Evaluate applies the end-of-war rules after both sides have updated.
//
// Checks run in a fixed order and a later check overwrites the winner and
// reason of an earlier one on the same day: economic collapse of a then b,
// military collapse of a then b, then superiority of a, else of b. So a day on
// which b's economy collapses and b also holds a 4x edge ends with b winning
// by superiority. Scenario baselines depend on this order.
func Evaluate(a, b Snapshot) (winner string, reason Reason, ended bool) {
	winner, reason = NoWinner, ReasonNone

	for _, p := range [][2]Snapshot{{a, b}, {b, a}} {
		if p[0].economicCollapse() {
			logrus.Debugf("%s has lost the war due to economic collapse", p[0].Name)
			winner, reason, ended = p[1].Name, ReasonEconomicCollapse, true
		}
	}
	for _, p := range [][2]Snapshot{{a, b}, {b, a}} {
		if p[0].militaryCollapse() {
			logrus.Debugf("%s has lost the war due to military collapse", p[0].Name)
			winner, reason, ended = p[1].Name, ReasonMilitaryCollapse, true
		}
	}

	if a.MilitaryCapability > SuperiorityRatio*b.MilitaryCapability {
		logrus.Debugf("%s has won the war militarily", a.Name)
		winner, reason, ended = a.Name, ReasonMilitarySuperiority, true
	} else if b.MilitaryCapability > SuperiorityRatio*a.MilitaryCapability {
		logrus.Debugf("%s has won the war militarily", b.Name)
		winner, reason, ended = b.Name, ReasonMilitarySuperiority, true
	}

	return winner, reason, ended
}

package metrics

import (
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/sim"
)

// DeficitDays counts the days on which one side ran a negative budget.
type DeficitDays struct {
	name string
	side sim.Side
	days int
}

func NewDeficitDays(side sim.Side) *DeficitDays {
	return &DeficitDays{
		name: "deficit_days_" + side.String(),
		side: side,
	}
}

func (d *DeficitDays) Name() string {
	return d.name
}

func (d *DeficitDays) Observe(t int, a, b *model.Belligerent) {
	if d.side.Pick(a, b).Budget() < 0 {
		d.days++
	}
}

func (d *DeficitDays) Value() float64 {
	return float64(d.days)
}

func (d *DeficitDays) Reset() {
	d.days = 0
}

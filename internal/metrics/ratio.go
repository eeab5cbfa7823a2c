package metrics

import (
	"math"

	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/sim"
)

// PeakCapabilityRatio is the largest ratio of the stronger side's military
// capability to the weaker side's over the run. Days on which either side
// has no capability left are skipped.
type PeakCapabilityRatio struct {
	name string
	peak float64
}

func NewPeakCapabilityRatio() *PeakCapabilityRatio {
	return &PeakCapabilityRatio{
		name: "peak_capability_ratio",
	}
}

func (r *PeakCapabilityRatio) Name() string {
	return r.name
}

func (r *PeakCapabilityRatio) Observe(t int, a, b *model.Belligerent) {
	hi := math.Max(a.MilitaryCapability(), b.MilitaryCapability())
	lo := math.Min(a.MilitaryCapability(), b.MilitaryCapability())
	if lo <= 0 {
		return
	}
	r.peak = math.Max(r.peak, hi/lo)
}

func (r *PeakCapabilityRatio) Value() float64 {
	return r.peak
}

func (r *PeakCapabilityRatio) Reset() {
	r.peak = 0
}

// Defaults is the metric set attached to every trial.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewDeficitDays(sim.SideA),
		NewDeficitDays(sim.SideB),
		NewPeakPriceLevel(sim.SideA),
		NewPeakPriceLevel(sim.SideB),
		NewCapitalDrawdown(sim.SideA),
		NewCapitalDrawdown(sim.SideB),
		NewPeakCapabilityRatio(),
	}
}

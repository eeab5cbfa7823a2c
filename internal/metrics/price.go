package metrics

import (
	"math"

	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/sim"
)

// PeakPriceLevel tracks the highest price level one side reached.
type PeakPriceLevel struct {
	name string
	side sim.Side
	peak float64
}

func NewPeakPriceLevel(side sim.Side) *PeakPriceLevel {
	return &PeakPriceLevel{
		name: "peak_price_level_" + side.String(),
		side: side,
		peak: 1,
	}
}

func (p *PeakPriceLevel) Name() string { return p.name }

func (p *PeakPriceLevel) Observe(t int, a, b *model.Belligerent) {
	p.peak = math.Max(p.peak, p.side.Pick(a, b).PriceLevel())
}

func (p *PeakPriceLevel) Value() float64 { return p.peak }

func (p *PeakPriceLevel) Reset() { p.peak = 1 }

// CapitalDrawdown is the largest fractional drop of one side's economic
// capital below its day-0 value.
type CapitalDrawdown struct {
	name     string
	side     sim.Side
	drawdown float64
}

func NewCapitalDrawdown(side sim.Side) *CapitalDrawdown {
	return &CapitalDrawdown{
		name: "capital_drawdown_" + side.String(),
		side: side,
	}
}

func (c *CapitalDrawdown) Name() string { return c.name }

func (c *CapitalDrawdown) Observe(t int, a, b *model.Belligerent) {
	actor := c.side.Pick(a, b)
	base := actor.BaselineCapital()
	if base == 0 {
		return
	}
	drop := (base - actor.EconomicCapital()) / math.Abs(base)
	c.drawdown = math.Max(c.drawdown, drop)
}

func (c *CapitalDrawdown) Value() float64 { return c.drawdown }

func (c *CapitalDrawdown) Reset() { c.drawdown = 0 }

package sweep

import (
	"fmt"
	"math"

	"github.com/san-kum/conflictsim/internal/model"
)

const shareTolerance = 1e-9

// Grid spans investment policies and international interference. Both sides
// use the same investment split in every cell.
type Grid struct {
	Shares     []float64 `yaml:"shares"`
	SanctionsA []float64 `yaml:"sanctions_a"`
	AidB       []float64 `yaml:"aid_b"`
}

func DefaultGrid() Grid {
	return Grid{
		Shares:     []float64{0.15, 0.25, 0.35},
		SanctionsA: []float64{0.07, 0.14, 0.21},
		AidB:       []float64{0.12, 0.24, 0.36},
	}
}

// Cell is one point of the grid.
type Cell struct {
	Investment model.Investment
	SanctionsA float64
	AidB       float64
}

func (c Cell) Params() map[string]float64 {
	return map[string]float64{
		"military_technology_share":   c.Investment.MilitaryTechnology,
		"industrial_technology_share": c.Investment.IndustrialTechnology,
		"military_industrial_share":   c.Investment.MilitaryIndustrial,
		"civilian_industrial_share":   c.Investment.CivilianIndustrial,
		"sanctions_a":                 c.SanctionsA,
		"aid_b":                       c.AidB,
	}
}

func (c Cell) String() string {
	i := c.Investment
	return fmt.Sprintf("inv=%.2f/%.2f/%.2f/%.2f sanctions=%.2f aid=%.2f",
		i.MilitaryTechnology, i.IndustrialTechnology, i.MilitaryIndustrial, i.CivilianIndustrial,
		c.SanctionsA, c.AidB)
}

// Investments returns every split drawn from Shares whose four shares sum
// to one.
func (g Grid) Investments() []model.Investment {
	var out []model.Investment
	g.investmentsRecursive(0, make([]float64, 0, 4), &out)
	return out
}

func (g Grid) investmentsRecursive(depth int, current []float64, out *[]model.Investment) {
	if depth == 4 {
		sum := current[0] + current[1] + current[2] + current[3]
		if math.Abs(sum-1) <= shareTolerance {
			*out = append(*out, model.Investment{
				MilitaryTechnology:   current[0],
				IndustrialTechnology: current[1],
				MilitaryIndustrial:   current[2],
				CivilianIndustrial:   current[3],
			})
		}
		return
	}
	for _, v := range g.Shares {
		g.investmentsRecursive(depth+1, append(current, v), out)
	}
}

// Cells enumerates investment splits in the outer loop and interference in
// the inner loop.
func (g Grid) Cells() []Cell {
	var cells []Cell
	for _, inv := range g.Investments() {
		for _, s := range g.SanctionsA {
			for _, aid := range g.AidB {
				cells = append(cells, Cell{Investment: inv, SanctionsA: s, AidB: aid})
			}
		}
	}
	return cells
}

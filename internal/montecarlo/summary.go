package montecarlo

import (
	"math"
	"sort"

	"github.com/san-kum/conflictsim/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of outcomes over completed trials.
type Summary struct {
	Trials       int     `json:"trials"`
	Failed       int     `json:"failed"`
	MeanLength   float64 `json:"mean_length"`
	StdLength    float64 `json:"std_length"`
	MeanYears    float64 `json:"mean_years"`
	MinLength    int     `json:"min_length"`
	MaxLength    int     `json:"max_length"`
	ModalWinner  string  `json:"modal_winner"`
	Inconclusive int     `json:"inconclusive"`

	Wins    map[string]int                `json:"wins"`
	Reasons map[string]map[sim.Reason]int `json:"reasons"`
}

// Summarize reduces outcomes to summary statistics. The length spread is the
// population standard deviation. The modal winner counts "none" like any
// other winner; ties go to the name that sorts first.
func Summarize(outcomes []sim.Outcome) Summary {
	s := Summary{
		Trials:      len(outcomes),
		ModalWinner: sim.NoWinner,
		Wins:        make(map[string]int),
		Reasons:     make(map[string]map[sim.Reason]int),
	}
	if len(outcomes) == 0 {
		return s
	}

	lengths := make([]float64, len(outcomes))
	s.MinLength, s.MaxLength = math.MaxInt, math.MinInt
	for i, o := range outcomes {
		lengths[i] = float64(o.Length)
		s.MinLength = min(s.MinLength, o.Length)
		s.MaxLength = max(s.MaxLength, o.Length)

		s.Wins[o.Winner]++
		if s.Reasons[o.Winner] == nil {
			s.Reasons[o.Winner] = make(map[sim.Reason]int)
		}
		s.Reasons[o.Winner][o.Reason]++
		if o.Inconclusive() {
			s.Inconclusive++
		}
	}

	mean, variance := stat.PopMeanVariance(lengths, nil)
	s.MeanLength = mean
	s.StdLength = math.Sqrt(variance)
	s.MeanYears = mean / 365

	winners := make([]string, 0, len(s.Wins))
	for w := range s.Wins {
		winners = append(winners, w)
	}
	sort.Strings(winners)
	best := -1
	for _, w := range winners {
		if s.Wins[w] > best {
			s.ModalWinner, best = w, s.Wins[w]
		}
	}
	return s
}

// Summary summarizes the ensemble's completed trials.
func (e *Ensemble) Summary() Summary {
	s := Summarize(e.Outcomes())
	s.Failed = len(e.Failures)
	return s
}

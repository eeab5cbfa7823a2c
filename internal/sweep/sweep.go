package sweep

import (
	"context"
	"fmt"

	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/montecarlo"
	"github.com/sirupsen/logrus"
)

// Sink persists finished ensembles.
type Sink interface {
	SaveEnsemble(ens *montecarlo.Ensemble, params map[string]float64) error
}

type CellResult struct {
	Cell       Cell
	EnsembleID string
	Summary    montecarlo.Summary
}

// Scenario derives the ensemble input of one cell from base. Every cell keeps
// base's seed so cells differ only in their parameters.
func Scenario(base montecarlo.Scenario, c Cell) montecarlo.Scenario {
	s := base
	s.Name = base.Name + " " + c.String()
	s.A.Investment, s.B.Investment = c.Investment, c.Investment

	s.A.Sanctions = base.A.Sanctions
	if s.A.Sanctions.Kind == model.PolicyTable {
		s.A.Sanctions = model.SanctionsRamp(c.SanctionsA)
	} else {
		s.A.Sanctions.Level = c.SanctionsA
	}
	s.A.ForeignAid = model.Constant(0)

	s.B.Sanctions = model.Constant(0)
	s.B.ForeignAid = model.Constant(c.AidB)
	return s
}

// Run runs one ensemble per cell in order and hands each to sink, which may
// be nil. Cancelling ctx stops the sweep between or inside cells; results of
// the cells finished so far are returned with ctx.Err(). A cell cut short is
// handed to sink flagged as interrupted but is not among the results.
func Run(ctx context.Context, base montecarlo.Scenario, grid Grid, sink Sink, onCell func(i, n int, r CellResult)) ([]CellResult, error) {
	cells := grid.Cells()
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: empty sweep grid", montecarlo.ErrInvalidScenario)
	}
	logrus.WithField("cells", len(cells)).Info("sweep started")

	results := make([]CellResult, 0, len(cells))
	for i, c := range cells {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		ens, runErr := montecarlo.Run(ctx, Scenario(base, c), nil)
		if ens == nil {
			return results, fmt.Errorf("cell %d (%s): %w", i, c, runErr)
		}
		// an interrupted cell is still saved with the trials it completed
		if sink != nil {
			if err := sink.SaveEnsemble(ens, c.Params()); err != nil {
				return results, fmt.Errorf("save cell %d: %w", i, err)
			}
		}
		if runErr != nil {
			return results, fmt.Errorf("cell %d (%s): %w", i, c, runErr)
		}

		r := CellResult{Cell: c, EnsembleID: ens.ID, Summary: ens.Summary()}
		results = append(results, r)
		logrus.WithFields(logrus.Fields{
			"cell":        i,
			"mean_length": r.Summary.MeanLength,
			"winner":      r.Summary.ModalWinner,
		}).Debug("sweep cell finished")
		if onCell != nil {
			onCell(i, len(cells), r)
		}
	}
	return results, nil
}

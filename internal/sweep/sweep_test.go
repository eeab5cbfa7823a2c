package sweep

import (
	"context"
	"os"
	"sync/atomic"
	"testing"

	"github.com/san-kum/conflictsim/internal/config"
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/montecarlo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

func TestGrid_Investments(t *testing.T) {
	invs := DefaultGrid().Investments()
	require.Len(t, invs, 19)

	seen := make(map[model.Investment]bool)
	for _, inv := range invs {
		assert.InDelta(t, 1.0, inv.Total(), 1e-9)
		assert.False(t, seen[inv], "duplicate split %+v", inv)
		seen[inv] = true
	}
	assert.True(t, seen[model.EvenInvestment()])
}

func TestGrid_Cells(t *testing.T) {
	cells := DefaultGrid().Cells()
	assert.Len(t, cells, 19*9)

	first := cells[0]
	assert.Equal(t, 0.07, first.SanctionsA)
	assert.Equal(t, 0.12, first.AidB)
	assert.Equal(t, 0.24, cells[1].AidB)
	assert.Len(t, first.Params(), 6)
}

type recordingSink struct {
	ensembles []*montecarlo.Ensemble
	params    []map[string]float64
}

func (r *recordingSink) SaveEnsemble(ens *montecarlo.Ensemble, params map[string]float64) error {
	r.ensembles = append(r.ensembles, ens)
	r.params = append(r.params, params)
	return nil
}

// cancelAfter reports cancellation once Err has been consulted n times.
type cancelAfter struct {
	context.Context
	n     int64
	calls atomic.Int64
}

func (c *cancelAfter) Err() error {
	if c.calls.Add(1) > c.n {
		return context.Canceled
	}
	return nil
}

func baseScenario() montecarlo.Scenario {
	cfg := config.DefaultConfig()
	cfg.Horizon = 200
	cfg.MonteCarlo.Trials = 3
	cfg.MonteCarlo.Workers = 2
	return cfg.Scenario()
}

func TestScenario_AppliesCell(t *testing.T) {
	base := baseScenario()
	c := Cell{
		Investment: model.Investment{MilitaryTechnology: 0.35, IndustrialTechnology: 0.15, MilitaryIndustrial: 0.25, CivilianIndustrial: 0.25},
		SanctionsA: 0.21,
		AidB:       0.36,
	}
	s := Scenario(base, c)

	assert.Equal(t, c.Investment, s.A.Investment)
	assert.Equal(t, c.Investment, s.B.Investment)
	assert.Equal(t, model.PolicyRamp, s.A.Sanctions.Kind)
	assert.Equal(t, 0.21, s.A.Sanctions.Level)
	assert.Equal(t, model.SanctionsFloor, s.A.Sanctions.Floor)
	assert.Equal(t, 0.36, s.B.ForeignAid.Level)
	assert.Equal(t, 0.0, s.B.Sanctions.At(100))
	assert.Equal(t, base.Seed, s.Seed)

	// base is untouched
	assert.Equal(t, model.EvenInvestment(), base.A.Investment)
	assert.Equal(t, config.DefaultSanctions, base.A.Sanctions.Level)
}

func TestRun_PersistsEveryCell(t *testing.T) {
	grid := Grid{Shares: []float64{0.25}, SanctionsA: []float64{0.14}, AidB: []float64{0.12, 0.24}}
	sink := &recordingSink{}

	var seen []int
	results, err := Run(context.Background(), baseScenario(), grid, sink, func(i, n int, r CellResult) {
		assert.Equal(t, 2, n)
		seen = append(seen, i)
	})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, []int{0, 1}, seen)
	require.Len(t, sink.params, 2)
	assert.Equal(t, 0.24, sink.params[1]["aid_b"])
	for _, r := range results {
		assert.NotEmpty(t, r.EnsembleID)
		assert.Equal(t, 3, r.Summary.Trials+r.Summary.Failed)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, baseScenario(), DefaultGrid(), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestRun_InterruptedCellIsSaved(t *testing.T) {
	base := baseScenario()
	base.Workers = 1
	grid := Grid{Shares: []float64{0.25}, SanctionsA: []float64{0.14}, AidB: []float64{0.12, 0.24}}
	sink := &recordingSink{}

	// the sweep's own check and the first trial pass, the second trial is refused
	ctx := &cancelAfter{Context: context.Background(), n: 4}

	results, err := Run(ctx, base, grid, sink, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)

	require.Len(t, sink.ensembles, 1)
	ens := sink.ensembles[0]
	assert.True(t, ens.Interrupted)
	assert.NotEmpty(t, ens.Trials)
	assert.Less(t, len(ens.Trials)+len(ens.Failures), base.Trials)
	assert.Equal(t, 0.12, sink.params[0]["aid_b"])
}

func TestRun_EmptyGrid(t *testing.T) {
	_, err := Run(context.Background(), baseScenario(), Grid{}, nil, nil)
	assert.ErrorIs(t, err, montecarlo.ErrInvalidScenario)
}

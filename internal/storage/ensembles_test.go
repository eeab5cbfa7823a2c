package storage

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/conflictsim/internal/montecarlo"
	"github.com/san-kum/conflictsim/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *EnsembleStore {
	t.Helper()
	s, err := OpenEnsembleStore(filepath.Join(t.TempDir(), "ensembles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ensemble(id, scenario string, started time.Time) *montecarlo.Ensemble {
	return &montecarlo.Ensemble{
		ID:       id,
		Scenario: montecarlo.Scenario{Name: scenario, Trials: 4, Horizon: 3600, Seed: 1<<63 + 5},
		Started:  started,
		Trials: []montecarlo.Trial{
			{Index: 0, Seed: 11, Outcome: sim.Outcome{Length: 100, Winner: "A", Reason: sim.ReasonMilitarySuperiority}, Metrics: map[string]float64{"deficit_days_a": 2}},
			{Index: 1, Seed: 12, Outcome: sim.Outcome{Length: 3600, Winner: sim.NoWinner, Reason: sim.ReasonNone}},
			{Index: 3, Seed: 1 << 63, Outcome: sim.Outcome{Length: 200, Winner: "A", Reason: sim.ReasonEconomicCollapse}},
		},
		Failures: []montecarlo.Failure{{Index: 2}},
	}
}

func TestEnsembleStore_SaveAndGet(t *testing.T) {
	s := openStore(t)
	ens := ensemble("e1", "baseline", time.Unix(1000, 0))
	require.NoError(t, s.SaveEnsemble(ens, map[string]float64{"sanctions_a": 0.14}))

	r, err := s.GetEnsemble("e1")
	require.NoError(t, err)
	assert.Equal(t, "baseline", r.Scenario)
	assert.Equal(t, 4, r.Trials)
	assert.Equal(t, 3, r.Completed)
	assert.Equal(t, 1, r.Failed)
	assert.False(t, r.Interrupted)
	assert.Equal(t, "A", r.ModalWinner)
	assert.Equal(t, 1, r.Inconclusive)
	assert.InDelta(t, 1300.0, r.MeanLength, 1e-9)
	assert.Equal(t, uint64(1<<63+5), uint64(r.Seed))
	assert.Equal(t, time.Unix(1000, 0), r.Created())

	params, err := r.Params()
	require.NoError(t, err)
	assert.Equal(t, 0.14, params["sanctions_a"])

	outcomes, err := s.Outcomes("e1")
	require.NoError(t, err)
	assert.Equal(t, ens.Outcomes(), outcomes)
}

func TestEnsembleStore_List(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.SaveEnsemble(ensemble("old", "baseline", time.Unix(1000, 0)), nil))
	require.NoError(t, s.SaveEnsemble(ensemble("new", "baseline", time.Unix(2000, 0)), nil))
	require.NoError(t, s.SaveEnsemble(ensemble("other", "high-aid", time.Unix(3000, 0)), nil))

	all, err := s.ListEnsembles("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "other", all[0].ID)

	baseline, err := s.ListEnsembles("baseline")
	require.NoError(t, err)
	require.Len(t, baseline, 2)
	assert.Equal(t, "new", baseline[0].ID)
	assert.Equal(t, "old", baseline[1].ID)
}

func TestEnsembleStore_Errors(t *testing.T) {
	s := openStore(t)

	_, err := s.GetEnsemble("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	ens := ensemble("dup", "baseline", time.Now())
	require.NoError(t, s.SaveEnsemble(ens, nil))
	assert.Error(t, s.SaveEnsemble(ens, nil))

	outcomes, err := s.Outcomes("missing")
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestEnsembleStore_UnencodableMetricRollsBack(t *testing.T) {
	s := openStore(t)
	ens := ensemble("nan", "baseline", time.Now())
	ens.Trials[1].Metrics = map[string]float64{"peak_capability_ratio": math.Inf(1)}

	err := s.SaveEnsemble(ens, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trial 1")

	_, err = s.GetEnsemble("nan")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

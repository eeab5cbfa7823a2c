package montecarlo

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/sim"
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

func testScenario(trials int) Scenario {
	return Scenario{
		Name:         "test",
		Trials:       trials,
		Horizon:      400,
		Workers:      2,
		Seed:         42,
		ClampStocks:  true,
		Coefficients: DefaultDistribution(),
		A: model.ActorConfig{
			Name: "Russian Federation",
			Stocks: model.Stocks{
				IndustrialTechnology:       1,
				MilitaryTechnology:         1,
				CivilianIndustrialCapacity: 850,
				MilitaryIndustrialCapacity: 100,
				MilitaryCapability:         175,
			},
			Investment: model.EvenInvestment(),
			TaxRate:    0.11,
			Sanctions:  model.SanctionsRamp(0.14),
			ForeignAid: model.Constant(0),
		},
		B: model.ActorConfig{
			Name: "Ukraine",
			Stocks: model.Stocks{
				IndustrialTechnology:       1,
				MilitaryTechnology:         1,
				CivilianIndustrialCapacity: 100,
				MilitaryIndustrialCapacity: 100,
				MilitaryCapability:         100,
			},
			Investment: model.EvenInvestment(),
			TaxRate:    0.19,
			Sanctions:  model.Constant(0),
			ForeignAid: model.Constant(0.16),
		},
		Schedule:     sim.DefaultPhasedSchedule(2.5, 0.62),
		Perturbation: DefaultPerturbation(),
	}
}

func TestPartitionedRNG_Isolation(t *testing.T) {
	p1 := NewPartitionedRNG(7)
	p2 := NewPartitionedRNG(7)

	// drawing from one subsystem must not shift another
	p1.ForSubsystem(SubsystemInitial).Uint64()
	assert.Equal(t, p2.ForSubsystem(SubsystemCoefficients).Uint64(), p1.ForSubsystem(SubsystemCoefficients).Uint64())

	assert.Same(t, p1.ForSubsystem(SubsystemSchedule), p1.ForSubsystem(SubsystemSchedule))
	assert.NotEqual(t, TrialSeed(7, 0), TrialSeed(7, 1))
	assert.Equal(t, TrialSeed(7, 3), TrialSeed(7, 3))
	assert.Equal(t, uint64(7), p1.Seed())
}

func TestDistribution_SampleWithinRanges(t *testing.T) {
	d := DefaultDistribution()
	require.NoError(t, d.Validate())

	for i := 0; i < 200; i++ {
		c := d.Sample(NewPartitionedRNG(uint64(i)).ForSubsystem(SubsystemCoefficients))
		require.NoError(t, c.Validate())

		assert.Equal(t, 8.0, c.ProductionEfficiency)
		assert.Equal(t, 2.5, c.ConflictIntensity)
		assert.GreaterOrEqual(t, c.MilitaryCapabilityWeight, 5e-5)
		assert.Less(t, c.MilitaryCapabilityWeight, 1e-3)
		assert.GreaterOrEqual(t, c.MilitaryDemandCoefficient, 1.0)
		assert.Less(t, c.MilitaryDemandCoefficient, 10.0)
		assert.Equal(t, float64(int(c.SanctionsDelay)), c.SanctionsDelay)
		assert.GreaterOrEqual(t, c.SanctionsDelay, 0.0)
	}
}

func TestDistribution_Deterministic(t *testing.T) {
	d := DefaultDistribution()
	c1 := d.Sample(NewPartitionedRNG(99).ForSubsystem(SubsystemCoefficients))
	c2 := d.Sample(NewPartitionedRNG(99).ForSubsystem(SubsystemCoefficients))
	assert.Equal(t, c1, c2)
}

func TestDistribution_Validate(t *testing.T) {
	tests := []struct {
		name string
		d    Distribution
		ok   bool
	}{
		{"default", DefaultDistribution(), true},
		{"empty", Distribution{}, true},
		{"unknown coefficient", Distribution{"warp_factor": Fixed(1)}, false},
		{"inverted uniform", Distribution{"epsilon": Uniform(2, 1)}, false},
		{"negative spread", Distribution{"sanctions_delay": NormalInt(60, -1)}, false},
		{"unknown kind", Distribution{"epsilon": {Kind: "cauchy"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidScenario)
		})
	}
}

func TestSampler_Unset(t *testing.T) {
	var s Sampler
	assert.False(t, s.IsSet())
	assert.Equal(t, 0.3, s.Sample(NewPartitionedRNG(1).ForSubsystem("x"), 0.3))
	assert.Equal(t, 0.0, NormalInt(-5, 0).Sample(nil, 1))
	assert.Equal(t, 60.0, NormalInt(60.7, 0).Sample(nil, 1))
}

func TestScenario_BuildPerturbs(t *testing.T) {
	s := testScenario(1)
	tr := s.build(0)

	assert.InDelta(t, 1.0, tr.a.AttackingIntensity+tr.b.AttackingIntensity, 1e-12)
	assert.NotEqual(t, 0.11, tr.a.TaxRate)
	assert.True(t, tr.a.ClampStocks)
	assert.Equal(t, tr.coeffs.ConflictIntensity, tr.schedule.OpeningConflict)
	assert.NotEqual(t, 0.62, tr.schedule.BaselineAttackA)

	assert.Equal(t, TrialSeed(s.Seed, 0), tr.seed)
	assert.Equal(t, TrialSeed(s.Seed, 1), s.build(1).seed)

	again := s.build(0)
	assert.Equal(t, tr, again)
}

func TestScenario_Validate(t *testing.T) {
	s := testScenario(0)
	assert.ErrorIs(t, s.Validate(), ErrInvalidScenario)

	s = testScenario(1)
	s.B.Name = s.A.Name
	assert.ErrorIs(t, s.Validate(), ErrInvalidScenario)

	s = testScenario(1)
	s.A.TaxRate = 2
	err := s.Validate()
	assert.ErrorIs(t, err, ErrInvalidScenario)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestRun_CollectsEveryTrial(t *testing.T) {
	s := testScenario(12)
	s.KeepHistories = true

	var calls atomic.Int64
	ens, err := Run(context.Background(), s, func(done, total int) {
		calls.Add(1)
		assert.Equal(t, 12, total)
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ens.ID)
	assert.False(t, ens.Interrupted)
	assert.Len(t, ens.Trials, 12)
	assert.Empty(t, ens.Failures)
	assert.Equal(t, int64(12), calls.Load())

	for i, tr := range ens.Trials {
		assert.Equal(t, i, tr.Index)
		require.NotNil(t, tr.A)
		assert.Equal(t, tr.A.Len(), tr.B.Len())
		if tr.Outcome.Inconclusive() {
			assert.Equal(t, s.Horizon, tr.Outcome.Length)
			assert.Equal(t, s.Horizon+1, tr.A.Len())
		} else {
			assert.Equal(t, tr.Outcome.Length+2, tr.A.Len())
		}
	}
	assert.Len(t, ens.Histories(sim.SideB), 12)
}

func TestRun_IndependentOfWorkerCount(t *testing.T) {
	s := testScenario(8)
	s.Workers = 1
	serial, err := Run(context.Background(), s, nil)
	require.NoError(t, err)

	s.Workers = 4
	parallel, err := Run(context.Background(), s, nil)
	require.NoError(t, err)

	assert.Equal(t, serial.Outcomes(), parallel.Outcomes())
	assert.Nil(t, serial.Trials[0].A)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ens, err := Run(ctx, testScenario(5), nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, ens)
	assert.True(t, ens.Interrupted)
	assert.Empty(t, ens.Trials)
}

func TestRun_FailedTrialsAreCounted(t *testing.T) {
	s := testScenario(3)
	s.Coefficients["military_capability_weight"] = Fixed(1e307)

	ens, err := Run(context.Background(), s, nil)
	require.NoError(t, err)
	assert.Empty(t, ens.Trials)
	require.Len(t, ens.Failures, 3)
	assert.True(t, errors.Is(ens.Failures[0].Err, sim.ErrNonFinite))
	assert.Equal(t, 3, ens.Summary().Failed)
}

func TestRun_InvalidScenario(t *testing.T) {
	_, err := Run(context.Background(), testScenario(-1), nil)
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestSummarize(t *testing.T) {
	outcomes := []sim.Outcome{
		{Length: 100, Winner: "A", Reason: sim.ReasonMilitarySuperiority},
		{Length: 200, Winner: "B", Reason: sim.ReasonEconomicCollapse},
		{Length: 300, Winner: "A", Reason: sim.ReasonEconomicCollapse},
		{Length: 400, Winner: sim.NoWinner, Reason: sim.ReasonNone},
	}
	s := Summarize(outcomes)

	assert.Equal(t, 4, s.Trials)
	assert.InDelta(t, 250.0, s.MeanLength, 1e-12)
	assert.InDelta(t, 111.80339887498948, s.StdLength, 1e-9)
	assert.InDelta(t, 250.0/365, s.MeanYears, 1e-12)
	assert.Equal(t, 100, s.MinLength)
	assert.Equal(t, 400, s.MaxLength)
	assert.Equal(t, "A", s.ModalWinner)
	assert.Equal(t, 1, s.Inconclusive)
	assert.Equal(t, map[string]int{"A": 2, "B": 1, sim.NoWinner: 1}, s.Wins)
	assert.Equal(t, 1, s.Reasons["A"][sim.ReasonEconomicCollapse])
	assert.Equal(t, 1, s.Reasons["A"][sim.ReasonMilitarySuperiority])
}

func TestSummarize_TiesAndEmpty(t *testing.T) {
	s := Summarize([]sim.Outcome{
		{Length: 5, Winner: "B"},
		{Length: 5, Winner: "A"},
	})
	assert.Equal(t, "A", s.ModalWinner)
	assert.Equal(t, 0.0, s.StdLength)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Trials)
	assert.Equal(t, sim.NoWinner, empty.ModalWinner)
}

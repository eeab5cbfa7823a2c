package montecarlo

import (
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/sim"
)

// Perturbation jitters each trial's initial conditions around the scenario's
// configured values. Unset samplers leave the configured value in place.
type Perturbation struct {
	// AttackA is a's opening attacking intensity; b attacks with 1 - a.
	AttackA Sampler `yaml:"attack_a" json:"attack_a"`

	// TaxStdDev is the spread of a normal draw around each side's tax rate.
	TaxStdDev float64 `yaml:"tax_std_dev" json:"tax_std_dev"`

	// BaselineAttackA is the target the schedule's transition phase settles at.
	BaselineAttackA Sampler `yaml:"baseline_attack_a" json:"baseline_attack_a"`
}

func DefaultPerturbation() Perturbation {
	return Perturbation{
		AttackA:         Normal(0.62, 0.02),
		TaxStdDev:       0.01,
		BaselineAttackA: Normal(0.62, 0.02),
	}
}

// Scenario is the read-only input shared by every trial of an ensemble.
type Scenario struct {
	Name          string
	Trials        int
	Horizon       int
	Workers       int
	Seed          uint64
	ClampStocks   bool
	KeepHistories bool

	Coefficients Distribution
	A, B         model.ActorConfig
	Schedule     sim.PhasedSchedule
	Perturbation Perturbation
}

func (s Scenario) Validate() error {
	if s.Trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidScenario, s.Trials)
	}
	if s.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidScenario, s.Horizon)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidScenario, s.Workers)
	}
	if s.A.Name == s.B.Name {
		return fmt.Errorf("%w: both sides are named %q", ErrInvalidScenario, s.A.Name)
	}
	if err := s.Coefficients.Validate(); err != nil {
		return err
	}
	if err := s.Perturbation.AttackA.Validate("perturbation.attack_a"); err != nil {
		return err
	}
	if err := s.Perturbation.BaselineAttackA.Validate("perturbation.baseline_attack_a"); err != nil {
		return err
	}
	if s.Perturbation.TaxStdDev < 0 {
		return fmt.Errorf("%w: perturbation.tax_std_dev must not be negative", ErrInvalidScenario)
	}
	for _, actor := range []model.ActorConfig{s.A, s.B} {
		if err := actor.Validate(); err != nil {
			return fmt.Errorf("%w: actor %q: %w", ErrInvalidScenario, actor.Name, err)
		}
	}
	return nil
}

func (s Scenario) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// trial is everything one run needs, built from the scenario and the trial's
// own random streams.
type trial struct {
	seed     uint64
	coeffs   model.Coefficients
	a, b     model.ActorConfig
	schedule sim.PhasedSchedule
}

func (s Scenario) build(i int) trial {
	seed := TrialSeed(s.Seed, i)
	rng := NewPartitionedRNG(seed)

	coeffs := s.Coefficients.Sample(rng.ForSubsystem(SubsystemCoefficients))

	a, b := s.A, s.B
	a.ClampStocks, b.ClampStocks = s.ClampStocks, s.ClampStocks

	init := rng.ForSubsystem(SubsystemInitial)
	if s.Perturbation.AttackA.IsSet() {
		attack := clampUnit(s.Perturbation.AttackA.Sample(init, a.AttackingIntensity))
		a.AttackingIntensity, b.AttackingIntensity = attack, 1-attack
	}
	if sd := s.Perturbation.TaxStdDev; sd > 0 {
		a.TaxRate = clampUnit(Normal(a.TaxRate, sd).Sample(init, a.TaxRate))
		b.TaxRate = clampUnit(Normal(b.TaxRate, sd).Sample(init, b.TaxRate))
	}

	schedule := s.Schedule
	schedule.OpeningConflict = coeffs.ConflictIntensity
	schedule.BaselineAttackA = clampUnit(s.Perturbation.BaselineAttackA.Sample(
		rng.ForSubsystem(SubsystemSchedule), schedule.BaselineAttackA))

	return trial{seed: rng.Seed(), coeffs: coeffs, a: a, b: b, schedule: schedule}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

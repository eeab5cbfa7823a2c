package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/conflictsim/internal/aggregate"
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/montecarlo"
	"github.com/san-kum/conflictsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHorizon        = 3600
	DefaultTrials         = 1000
	DefaultSeed           = 1
	DefaultBaselineAttack = 0.62
	DefaultSanctions      = 0.14
	DefaultForeignAid     = 0.16
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Name         string             `yaml:"name"`
	Horizon      int                `yaml:"horizon"`
	ClampStocks  bool               `yaml:"clamp_stocks"`
	Coefficients model.Coefficients `yaml:"coefficients"`
	ActorA       model.ActorConfig  `yaml:"actor_a"`
	ActorB       model.ActorConfig  `yaml:"actor_b"`
	Schedule     sim.PhasedSchedule `yaml:"schedule"`
	MonteCarlo   MonteCarloConfig   `yaml:"monte_carlo"`
}

type MonteCarloConfig struct {
	Trials        int                     `yaml:"trials"`
	Workers       int                     `yaml:"workers"`
	Seed          uint64                  `yaml:"seed"`
	Z             float64                 `yaml:"z"`
	Padding       string                  `yaml:"padding"`
	KeepHistories bool                    `yaml:"keep_histories"`
	Coefficients  montecarlo.Distribution `yaml:"coefficients"`
	Perturbation  montecarlo.Perturbation `yaml:"perturbation"`

	// CivilianIndustrialCapacityA replaces a's civilian industrial capacity
	// in ensembles when positive.
	CivilianIndustrialCapacityA float64 `yaml:"civilian_industrial_capacity_a"`
}

// DefaultActorA is the attacking side of the baseline scenario.
func DefaultActorA() model.ActorConfig {
	return model.ActorConfig{
		Name: "Russian Federation",
		Stocks: model.Stocks{
			IndustrialTechnology:       1,
			MilitaryTechnology:         1,
			CivilianIndustrialCapacity: 760,
			MilitaryIndustrialCapacity: 100,
			MilitaryCapability:         175,
		},
		Investment:         model.EvenInvestment(),
		TaxRate:            0.11,
		AttackingIntensity: 0.6,
		Sanctions:          model.SanctionsRamp(DefaultSanctions),
		ForeignAid:         model.Constant(0),
	}
}

// DefaultActorB is the defending side of the baseline scenario.
func DefaultActorB() model.ActorConfig {
	return model.ActorConfig{
		Name: "Ukraine",
		Stocks: model.Stocks{
			IndustrialTechnology:       1,
			MilitaryTechnology:         1,
			CivilianIndustrialCapacity: 100,
			MilitaryIndustrialCapacity: 100,
			MilitaryCapability:         100,
		},
		Investment:         model.EvenInvestment(),
		TaxRate:            0.19,
		AttackingIntensity: 0.4,
		Sanctions:          model.Constant(0),
		ForeignAid:         model.Constant(DefaultForeignAid),
	}
}

func DefaultConfig() *Config {
	coeffs := model.DefaultCoefficients()
	return &Config{
		Name:         "baseline",
		Horizon:      DefaultHorizon,
		ClampStocks:  true,
		Coefficients: coeffs,
		ActorA:       DefaultActorA(),
		ActorB:       DefaultActorB(),
		Schedule:     sim.DefaultPhasedSchedule(coeffs.ConflictIntensity, DefaultBaselineAttack),
		MonteCarlo: MonteCarloConfig{
			Trials:                      DefaultTrials,
			Seed:                        DefaultSeed,
			Z:                           aggregate.DefaultZ,
			Padding:                     aggregate.TailHold.String(),
			Coefficients:                montecarlo.DefaultDistribution(),
			Perturbation:                montecarlo.DefaultPerturbation(),
			CivilianIndustrialCapacityA: 850,
		},
	}
}

// Load reads a YAML scenario on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidConfig, c.Horizon)
	}
	if err := c.Coefficients.Validate(); err != nil {
		return fmt.Errorf("%w: coefficients: %w", ErrInvalidConfig, err)
	}
	if err := c.ActorA.Validate(); err != nil {
		return fmt.Errorf("%w: actor_a: %w", ErrInvalidConfig, err)
	}
	if err := c.ActorB.Validate(); err != nil {
		return fmt.Errorf("%w: actor_b: %w", ErrInvalidConfig, err)
	}
	if c.ActorA.Name == c.ActorB.Name {
		return fmt.Errorf("%w: both actors are named %q", ErrInvalidConfig, c.ActorA.Name)
	}
	s := c.Schedule
	if s.ConflictRampDays < 0 || s.OpeningDays < 0 || s.TransitionDays < 0 {
		return fmt.Errorf("%w: schedule day counts must not be negative", ErrInvalidConfig)
	}

	mc := c.MonteCarlo
	if mc.Trials <= 0 {
		return fmt.Errorf("%w: monte_carlo.trials must be positive, got %d", ErrInvalidConfig, mc.Trials)
	}
	if mc.Z < 0 {
		return fmt.Errorf("%w: monte_carlo.z must not be negative", ErrInvalidConfig)
	}
	if _, err := aggregate.ParsePadding(mc.Padding); err != nil {
		return fmt.Errorf("%w: monte_carlo.padding: %w", ErrInvalidConfig, err)
	}
	if err := mc.Coefficients.Validate(); err != nil {
		return fmt.Errorf("%w: monte_carlo: %w", ErrInvalidConfig, err)
	}
	return nil
}

// PhasedSchedule returns the schedule opening at the configured conflict
// intensity.
func (c *Config) PhasedSchedule() sim.PhasedSchedule {
	s := c.Schedule
	s.OpeningConflict = c.Coefficients.ConflictIntensity
	return s
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{Horizon: c.Horizon, ValidateState: true}
}

// Belligerents builds the two sides of a deterministic run.
func (c *Config) Belligerents() (*model.Belligerent, *model.Belligerent, error) {
	a, b := c.ActorA, c.ActorB
	a.ClampStocks, b.ClampStocks = c.ClampStocks, c.ClampStocks

	ra, err := model.NewBelligerent(a, c.Coefficients)
	if err != nil {
		return nil, nil, fmt.Errorf("actor_a: %w", err)
	}
	rb, err := model.NewBelligerent(b, c.Coefficients)
	if err != nil {
		return nil, nil, fmt.Errorf("actor_b: %w", err)
	}
	return ra, rb, nil
}

// Scenario builds the ensemble input.
func (c *Config) Scenario() montecarlo.Scenario {
	a := c.ActorA
	if cic := c.MonteCarlo.CivilianIndustrialCapacityA; cic > 0 {
		a.Stocks.CivilianIndustrialCapacity = cic
	}
	return montecarlo.Scenario{
		Name:          c.Name,
		Trials:        c.MonteCarlo.Trials,
		Horizon:       c.Horizon,
		Workers:       c.MonteCarlo.Workers,
		Seed:          c.MonteCarlo.Seed,
		ClampStocks:   c.ClampStocks,
		KeepHistories: c.MonteCarlo.KeepHistories,
		Coefficients:  c.MonteCarlo.Coefficients,
		A:             a,
		B:             c.ActorB,
		Schedule:      c.Schedule,
		Perturbation:  c.MonteCarlo.Perturbation,
	}
}

func (c *Config) Padding() aggregate.Padding {
	p, err := aggregate.ParsePadding(c.MonteCarlo.Padding)
	if err != nil {
		return aggregate.TailHold
	}
	return p
}

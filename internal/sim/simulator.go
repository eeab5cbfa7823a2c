package sim

import (
	"context"
	"math"

	"github.com/san-kum/conflictsim/internal/model"
	"github.com/sirupsen/logrus"
)

// Simulator couples two actors day by day until a termination rule fires or
// the horizon is reached.
type Simulator struct {
	schedule  Schedule
	metrics   []Metric
	observers []Observer
}

func New(schedule Schedule) *Simulator {
	return &Simulator{
		schedule:  schedule,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps a and b forward. Both sides see each other's capability as it
// stood at the start of the day. A trial is not interruptible once started;
// ctx is only checked before the first day.
func (s *Simulator) Run(ctx context.Context, a, b *model.Belligerent, cfg Config) (*Result, error) {
	if err := s.validate(a, b, cfg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		A:       a,
		B:       b,
		Metrics: make(map[string]float64),
		Outcome: Outcome{Length: cfg.Horizon, Winner: NoWinner, Reason: ReasonNone},
	}

	for t := 0; t < cfg.Horizon; t++ {
		conflict := s.schedule.ConflictIntensity(t)
		s.schedule.Apply(t, a, b)

		ma, mb := a.MilitaryCapability(), b.MilitaryCapability()
		a.Update(t, mb, conflict)
		b.Update(t, ma, conflict)
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(t, a, b)
		}
		for _, obs := range s.observers {
			obs.OnStep(t, a, b)
		}

		if cfg.ValidateState {
			for _, actor := range []*model.Belligerent{a, b} {
				if !finite(actor) {
					s.collect(result)
					return result, &SimulationError{Step: t, Actor: actor.Name(), Wrapped: ErrNonFinite}
				}
			}
		}

		if winner, reason, ended := Evaluate(SnapshotOf(a), SnapshotOf(b)); ended {
			result.Outcome = Outcome{Length: t, Winner: winner, Reason: reason}
			logEndgame(result)
			break
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) validate(a, b *model.Belligerent, cfg Config) error {
	if cfg.Horizon <= 0 {
		return ErrInvalidHorizon
	}
	if a == b {
		return ErrSameActor
	}
	return nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func finite(b *model.Belligerent) bool {
	st := b.Stocks()
	for _, v := range []float64{
		st.IndustrialTechnology,
		st.MilitaryTechnology,
		st.CivilianIndustrialCapacity,
		st.MilitaryIndustrialCapacity,
		st.MilitaryCapability,
		b.EconomicCapital(),
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func logEndgame(r *Result) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	logrus.Debugf("day %d: %s wins (%s)", r.Outcome.Length, r.Outcome.Winner, r.Outcome.Reason)
	for _, actor := range []*model.Belligerent{r.A, r.B} {
		logrus.WithFields(logrus.Fields{
			"actor":                        actor.Name(),
			"economic_capital":             actor.EconomicCapital(),
			"military_capability":          actor.MilitaryCapability(),
			"civilian_industrial_capacity": actor.Stocks().CivilianIndustrialCapacity,
		}).Debug("endgame")
	}
}

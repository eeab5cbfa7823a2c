package montecarlo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/conflictsim/internal/metrics"
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/sim"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Trial is the result of one completed run.
type Trial struct {
	Index   int
	Seed    uint64
	Outcome sim.Outcome
	Metrics map[string]float64

	// Histories are nil unless the scenario keeps them.
	A, B *model.History
}

// Failure records a trial that could not be completed.
type Failure struct {
	Index int
	Seed  uint64
	Err   error
}

type Ensemble struct {
	ID          string
	Scenario    Scenario
	Trials      []Trial
	Failures    []Failure
	Started     time.Time
	Finished    time.Time
	Interrupted bool
}

// Progress is called after every finished trial with the number of trials
// finished so far. It may be called from several goroutines at once.
type Progress func(done, total int)

// Run executes the scenario's trials on a bounded worker pool. Trials share
// nothing but the read-only scenario, so they complete in any order; the
// returned trials are sorted by index.
//
// Cancelling ctx stops new trials from starting. Trials already running finish,
// and Run returns the partial ensemble together with ctx.Err().
func Run(ctx context.Context, s Scenario, progress Progress) (*Ensemble, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ens := &Ensemble{
		ID:       uuid.NewString(),
		Scenario: s,
		Started:  time.Now(),
	}
	logrus.WithFields(logrus.Fields{
		"id":      ens.ID,
		"trials":  s.Trials,
		"workers": s.workers(),
	}).Info("ensemble started")

	trials := make([]*Trial, s.Trials)
	failures := make([]*Failure, s.Trials)
	done := make(chan struct{}, s.Trials)

	var g errgroup.Group
	g.SetLimit(s.workers())

	reported := make(chan struct{})
	go func() {
		defer close(reported)
		n := 0
		for range done {
			n++
			if progress != nil {
				progress(n, s.Trials)
			}
		}
	}()

	for i := 0; i < s.Trials; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			t, err := s.runTrial(ctx, i)
			switch {
			case err == nil:
				trials[i] = t
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return nil
			default:
				logrus.WithError(err).WithField("trial", i).Warn("trial failed")
				failures[i] = &Failure{Index: i, Seed: TrialSeed(s.Seed, i), Err: err}
			}
			done <- struct{}{}
			return nil
		})
	}
	_ = g.Wait()
	close(done)
	<-reported

	for i := range trials {
		if trials[i] != nil {
			ens.Trials = append(ens.Trials, *trials[i])
		}
		if failures[i] != nil {
			ens.Failures = append(ens.Failures, *failures[i])
		}
	}
	ens.Finished = time.Now()

	if err := ctx.Err(); err != nil && len(ens.Trials)+len(ens.Failures) < s.Trials {
		ens.Interrupted = true
		logrus.WithFields(logrus.Fields{
			"id":        ens.ID,
			"completed": len(ens.Trials),
			"trials":    s.Trials,
		}).Warn("ensemble interrupted")
		return ens, err
	}

	logrus.WithFields(logrus.Fields{
		"id":        ens.ID,
		"completed": len(ens.Trials),
		"failed":    len(ens.Failures),
		"elapsed":   ens.Finished.Sub(ens.Started),
	}).Info("ensemble finished")
	return ens, nil
}

func (s Scenario) runTrial(ctx context.Context, i int) (*Trial, error) {
	tr := s.build(i)

	a, err := model.NewBelligerent(tr.a, tr.coeffs)
	if err != nil {
		return nil, err
	}
	b, err := model.NewBelligerent(tr.b, tr.coeffs)
	if err != nil {
		return nil, err
	}

	simulator := sim.New(tr.schedule)
	for _, m := range metrics.Defaults() {
		simulator.AddMetric(m)
	}

	res, err := simulator.Run(ctx, a, b, sim.Config{Horizon: s.Horizon, ValidateState: true})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"trial":  i,
		"length": res.Outcome.Length,
		"winner": res.Outcome.Winner,
	}).Debug("trial finished")

	t := &Trial{
		Index:   i,
		Seed:    tr.seed,
		Outcome: res.Outcome,
		Metrics: res.Metrics,
	}
	if s.KeepHistories {
		t.A, t.B = a.History(), b.History()
	}
	return t, nil
}

// Histories returns the kept histories of side in trial order.
func (e *Ensemble) Histories(side sim.Side) []*model.History {
	out := make([]*model.History, 0, len(e.Trials))
	for _, t := range e.Trials {
		h := t.A
		if side == sim.SideB {
			h = t.B
		}
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Outcomes returns the trial outcomes in trial order.
func (e *Ensemble) Outcomes() []sim.Outcome {
	out := make([]sim.Outcome, len(e.Trials))
	for i, t := range e.Trials {
		out[i] = t.Outcome
	}
	return out
}

package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFinite indicates a stock became NaN or Inf.
	ErrNonFinite = errors.New("sim: non-finite stock (NaN or Inf detected)")

	// ErrInvalidHorizon indicates a non-positive horizon.
	ErrInvalidHorizon = errors.New("sim: horizon must be positive")

	// ErrSameActor indicates both sides are the same Belligerent.
	ErrSameActor = errors.New("sim: both sides are the same actor")
)

// SimulationError wraps an error with the day and side it occurred on.
type SimulationError struct {
	Step    int
	Actor   string
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("day %d (%s): %v", e.Step, e.Actor, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

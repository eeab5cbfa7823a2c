package montecarlo

import "errors"

var (
	ErrInvalidScenario = errors.New("montecarlo: invalid scenario")
	ErrNoTrials        = errors.New("montecarlo: no completed trials")
)

package aggregate

import (
	"fmt"

	"github.com/san-kum/conflictsim/internal/model"
)

// SideBands is the aggregate of every recorded metric for one side.
type SideBands map[model.Metric]Bands

// MaxLength is the longest history in the batch.
func MaxLength(histories []*model.History) int {
	n := 0
	for _, h := range histories {
		n = max(n, h.Len())
	}
	return n
}

// Histories aggregates the nine metrics of one side's trial histories.
func Histories(histories []*model.History, length int, pad Padding, z float64) (SideBands, error) {
	if len(histories) == 0 {
		return nil, ErrNoSeries
	}
	out := make(SideBands, len(model.Metrics))
	series := make([][]float64, len(histories))
	for _, m := range model.Metrics {
		for k, h := range histories {
			series[k] = h.Series(m)
		}
		b, err := Aggregate(series, length, pad, z)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m, err)
		}
		out[m] = b
	}
	return out, nil
}

package aggregate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoSeries      = errors.New("aggregate: no series")
	ErrEmptySeries   = errors.New("aggregate: empty series")
	ErrInvalidLength = errors.New("aggregate: target length must be positive")
	ErrUnknownPad    = errors.New("aggregate: unknown padding policy")
)

// DefaultZ gives a ~95% confidence band.
const DefaultZ = 1.96

type Padding int

const (
	TailHold Padding = iota
	MeanInterpolate
)

func (p Padding) String() string {
	switch p {
	case TailHold:
		return "tail-hold"
	case MeanInterpolate:
		return "mean-interpolate"
	default:
		return fmt.Sprintf("Padding(%d)", int(p))
	}
}

func ParsePadding(s string) (Padding, error) {
	switch strings.ToLower(s) {
	case "tail-hold", "tail_hold", "tail":
		return TailHold, nil
	case "mean-interpolate", "mean_interpolate", "mean":
		return MeanInterpolate, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPad, s)
}

// Band is the mean and confidence interval at one step.
type Band struct {
	Mean  float64 `json:"mean"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Bands holds one Band per step, column-oriented.
type Bands struct {
	Mean  []float64 `json:"mean"`
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

func (b Bands) Len() int { return len(b.Mean) }

func (b Bands) At(i int) Band {
	return Band{Mean: b.Mean[i], Lower: b.Lower[i], Upper: b.Upper[i]}
}

// Aggregate pads or truncates every series to length and returns, per step,
// mean ± z·s/√n with s the sample standard deviation. Fewer than two series
// give a zero-width band.
func Aggregate(series [][]float64, length int, pad Padding, z float64) (Bands, error) {
	if len(series) == 0 {
		return Bands{}, ErrNoSeries
	}
	if length <= 0 {
		return Bands{}, ErrInvalidLength
	}
	for i, s := range series {
		if len(s) == 0 {
			return Bands{}, fmt.Errorf("%w: series %d", ErrEmptySeries, i)
		}
	}

	var padded [][]float64
	switch pad {
	case TailHold:
		padded = tailHold(series, length)
	case MeanInterpolate:
		padded = meanInterpolate(series, length)
	default:
		return Bands{}, fmt.Errorf("%w: %v", ErrUnknownPad, pad)
	}
	return bands(padded, length, z), nil
}

func tailHold(series [][]float64, length int) [][]float64 {
	out := make([][]float64, len(series))
	for k, s := range series {
		p := make([]float64, length)
		n := copy(p, s)
		for i := n; i < length; i++ {
			p[i] = s[len(s)-1]
		}
		out[k] = p
	}
	return out
}

// meanInterpolate fills each missing step with the mean over the trials
// still running at that step. Past the longest trial the last such mean is
// held.
func meanInterpolate(series [][]float64, length int) [][]float64 {
	fill := make([]float64, length)
	for i := 0; i < length; i++ {
		sum, n := 0.0, 0
		for _, s := range series {
			if i < len(s) {
				sum += s[i]
				n++
			}
		}
		if n > 0 {
			fill[i] = sum / float64(n)
		} else {
			fill[i] = fill[i-1]
		}
	}

	out := make([][]float64, len(series))
	for k, s := range series {
		p := make([]float64, length)
		n := copy(p, s)
		copy(p[n:], fill[n:])
		out[k] = p
	}
	return out
}

func bands(padded [][]float64, length int, z float64) Bands {
	b := Bands{
		Mean:  make([]float64, length),
		Lower: make([]float64, length),
		Upper: make([]float64, length),
	}
	n := float64(len(padded))
	column := make([]float64, len(padded))
	for i := 0; i < length; i++ {
		for k, p := range padded {
			column[k] = p[i]
		}
		if len(padded) < 2 {
			b.Mean[i], b.Lower[i], b.Upper[i] = column[0], column[0], column[0]
			continue
		}
		mean, sd := stat.MeanStdDev(column, nil)
		half := z * sd / math.Sqrt(n)
		b.Mean[i], b.Lower[i], b.Upper[i] = mean, mean-half, mean+half
	}
	return b
}

package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Errors returned by Normalize.
var (
	ErrEmpty      = errors.New("stats: input is empty")
	ErrNonFinite  = errors.New("stats: input contains NaN or Inf")
	ErrDegenerate = errors.New("stats: degenerate input, max equals min")
)

// Normalize maps x linearly onto [0, 1] via (x - min)/(max - min) and returns
// a new slice. The minimum maps to exactly 0 and the maximum to exactly 1.
// A constant input has no scale and fails with ErrDegenerate.
func Normalize(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmpty
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: index %d", ErrNonFinite, i)
		}
	}

	lo, hi := floats.Min(x), floats.Max(x)
	span := hi - lo
	if span == 0 {
		return nil, fmt.Errorf("%w: all %d values are %v", ErrDegenerate, len(x), lo)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - lo) / span
	}

	return out, nil
}

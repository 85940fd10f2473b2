// Package stats provides summary statistics and min-max normalization for
// measured signals and fit residuals.
package stats

import "math"

// Summary holds descriptive statistics of a series.
type Summary struct {
	Length   int
	Mean     float64
	RMS      float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Range    float64 // max - min
	Variance float64 // population variance
	StdDev   float64
}

// Calculate computes all statistics in a single pass using Welford's online
// algorithm for the variance. An empty series yields a zero Summary.
func Calculate(x []float64) Summary {
	n := len(x)
	if n == 0 {
		return Summary{}
	}

	var (
		mean   float64
		m2     float64
		sumSq  float64
		maxVal = x[0]
		maxPos int
		minVal = x[0]
		minPos int
	)

	for i, v := range x {
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)

		sumSq += v * v

		if v > maxVal {
			maxVal = v
			maxPos = i
		}
		if v < minVal {
			minVal = v
			minPos = i
		}
	}

	nf := float64(n)
	variance := m2 / nf

	return Summary{
		Length:   n,
		Mean:     mean,
		RMS:      math.Sqrt(sumSq / nf),
		Max:      maxVal,
		MaxPos:   maxPos,
		Min:      minVal,
		MinPos:   minPos,
		Range:    maxVal - minVal,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
	}
}

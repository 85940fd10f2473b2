package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Calculate(nil))
}

func TestCalculate(t *testing.T) {
	s := Calculate([]float64{2, -1, 4, 3})

	assert.Equal(t, 4, s.Length)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 2, s.MaxPos)
	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 1, s.MinPos)
	assert.Equal(t, 5.0, s.Range)
	assert.InDelta(t, math.Sqrt(30.0/4), s.RMS, 1e-15)
	// deviations 0, -3, 2, 1 → 14/4
	assert.InDelta(t, 3.5, s.Variance, 1e-12)
	assert.InDelta(t, math.Sqrt(3.5), s.StdDev, 1e-12)
}

func TestCalculateConstant(t *testing.T) {
	s := Calculate([]float64{0.5, 0.5, 0.5})
	assert.Equal(t, 0.5, s.Mean)
	assert.Zero(t, s.Variance)
	assert.Zero(t, s.Range)
}

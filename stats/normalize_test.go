package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{2, 4, 3, 6})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 0.25, 1}, out)
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	in := []float64{5, 1, 3}
	_, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1, 3}, in)
}

func TestNormalizeBoundsRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(60)
		x := make([]float64, n)
		for i := range x {
			x[i] = (rng.Float64() - 0.5) * math.Pow(10, float64(rng.Intn(8)-2))
		}

		out, err := Normalize(x)
		require.NoError(t, err)

		s := Calculate(x)
		assert.Equal(t, 0.0, out[s.MinPos])
		assert.Equal(t, 1.0, out[s.MaxPos])
		for i, v := range out {
			require.GreaterOrEqual(t, v, 0.0, "trial %d index %d", trial, i)
			require.LessOrEqual(t, v, 1.0, "trial %d index %d", trial, i)
		}
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	_, err := Normalize([]float64{4.2, 4.2, 4.2})
	require.ErrorIs(t, err, ErrDegenerate)

	_, err = Normalize([]float64{1})
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestNormalizeEmpty(t *testing.T) {
	_, err := Normalize(nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestNormalizeNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Normalize([]float64{1, bad, 2})
		require.ErrorIs(t, err, ErrNonFinite)
	}
}

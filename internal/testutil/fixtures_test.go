package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobias-fritz/thermal-denaturation/model"
)

func TestLinspace(t *testing.T) {
	ts := Temperatures()
	require.Len(t, ts, 40)
	assert.Equal(t, 293.0, ts[0])
	assert.Equal(t, 363.0, ts[39])
	for i := 1; i < len(ts); i++ {
		assert.InDelta(t, 70.0/39, ts[i]-ts[i-1], 1e-9)
	}
}

func TestCurve(t *testing.T) {
	ts := Temperatures()
	y := Curve(ts, Reference)
	require.Len(t, y, len(ts))
	RequireFinite(t, y)
	assert.Equal(t, model.Eval(ts[7], Reference), y[7])
}

func TestPerturb(t *testing.T) {
	p := Perturb(Reference, 0.01)
	assert.InDelta(t, Reference.DH*1.01, p.DH, 1e-6)
	assert.InDelta(t, Reference.MA*1.01, p.MA, 1e-15)
	RequireParamsClose(t, p, Reference, 0.0101, 0)
}

func TestWriteFileAndCSV(t *testing.T) {
	content := CSV([]string{"a", "b"}, []string{"1", "2"}, []string{"3", "4"})
	assert.Equal(t, "a,b\n1,2\n3,4\n", content)

	path := WriteFile(t, "x.csv", content)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(raw))
}

func TestRequireSliceNearlyEqual(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2.0000001}, []float64{1, 2}, 1e-6)
	RequireSliceNearlyEqual(t, nil, []float64{}, 0)
}

package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/tobias-fritz/thermal-denaturation/dataset"
	"github.com/tobias-fritz/thermal-denaturation/internal/testutil"
	"github.com/tobias-fritz/thermal-denaturation/model"
)

func fittedTable(t *testing.T) *dataset.Table {
	t.Helper()
	ts := testutil.Temperatures()
	tbl, err := dataset.FromSample(ts, testutil.Curve(ts, testutil.Reference))
	require.NoError(t, err)

	frac := make([]float64, len(ts))
	for i, k := range ts {
		frac[i] = model.Fraction(k, testutil.Reference)
	}
	require.NoError(t, tbl.SetFraction(frac))
	require.NoError(t, tbl.SetFit(frac))

	return tbl
}

func TestRender(t *testing.T) {
	tbl := fittedTable(t)
	dir := t.TempDir()

	for _, name := range []string{"curve.png", "curve.svg", "curve.pdf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Render(tbl, path, WithTitle("Thermal denaturation"), WithSize(4*vg.Inch, 3*vg.Inch)), name)

		info, err := os.Stat(path)
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestRenderUnsortedRows(t *testing.T) {
	tbl, err := dataset.FromSample([]float64{330, 300, 315}, []float64{1, 3, 2})
	require.NoError(t, err)
	require.NoError(t, tbl.SetFraction([]float64{0, 1, 0.5}))
	require.NoError(t, tbl.SetFit([]float64{0.1, 0.9, 0.5}))

	p, err := build(tbl, config{})
	require.NoError(t, err)
	assert.InDelta(t, 300-dataset.KelvinOffset, p.X.Min, 1e-9)
	assert.InDelta(t, 330-dataset.KelvinOffset, p.X.Max, 1e-9)
	require.NoError(t, Render(tbl, filepath.Join(t.TempDir(), "x.png")))
}

func TestRenderWithoutFit(t *testing.T) {
	tbl, err := dataset.FromSample([]float64{300, 310}, []float64{1, 2})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "x.png")
	require.ErrorIs(t, Render(tbl, path), ErrNoFit)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, tbl.SetFit([]float64{0, 1}))
	require.ErrorIs(t, Render(tbl, path), ErrNoFit)
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(fittedTable(t), filepath.Join(t.TempDir(), "curve.unknown"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoFit)
}

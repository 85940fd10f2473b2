package testutil

import (
	"math"
	"testing"

	"github.com/tobias-fritz/thermal-denaturation/model"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair differs by more than eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireParamsClose fails t if any parameter of got differs from want by
// more than rel relative to the larger of |want| and floor.
func RequireParamsClose(t *testing.T, got, want model.Params, rel, floor float64) {
	t.Helper()
	g, w := got.Vector(), want.Vector()
	for i := range w {
		ref := math.Max(math.Abs(w[i]), floor)
		if diff := math.Abs(g[i] - w[i]); diff > rel*ref {
			t.Fatalf("param %d: got %v, want %v (diff %v > %v)", i, g[i], w[i], diff, rel*ref)
		}
	}
}

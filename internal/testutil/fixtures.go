// Package testutil provides deterministic fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/tobias-fritz/thermal-denaturation/model"
)

// Reference is a well-conditioned parameter set with a clear transition
// inside [293, 363] K.
var Reference = model.Params{SA: 3.0, MA: -0.002, SB: 5.5, MB: -0.003, DH: 3e5, Tm: 322}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Temperatures returns the standard 40-point grid over [293, 363] K.
func Temperatures() []float64 {
	return Linspace(293, 363, 40)
}

// Curve evaluates the model at every temperature without noise.
func Curve(ts []float64, p model.Params) []float64 {
	return model.EvalAll(nil, ts, p)
}

// Perturb returns p with every parameter multiplied by (1 + rel).
func Perturb(p model.Params, rel float64) model.Params {
	v := p.Vector()
	floats.Scale(1+rel, v)
	out, err := model.FromVector(v)
	if err != nil {
		panic(err)
	}
	return out
}

// WriteFile writes content to name inside a per-test temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// CSV joins a header and rows into comma-separated text.
func CSV(header []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strings.Join(r, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// Package model implements the two-state thermal denaturation equation.
//
// A protein is assumed to populate two states with linear signal baselines
// sa + ma·T and sb + mb·T. Their equilibrium constant follows the
// van 't Hoff relation
//
//	K(T) = exp(-dH·(1/tm - 1/T)/R)
//
// and the observed signal is the population-weighted mean of both baselines:
//
//	y(T) = (sa + ma·T + (sb + mb·T)·K) / (1 + K)
//
// Temperatures are in Kelvin, dH in J/mol.
package model

import (
	"errors"
	"fmt"
	"math"
)

// R is the gas constant in J/(mol·K).
const R = 8.314

// NumParams is the number of free parameters of the model.
const NumParams = 6

// Parameter indices in the ordered vector form.
const (
	IndexSA = iota
	IndexMA
	IndexSB
	IndexMB
	IndexDH
	IndexTm
)

// ErrParamCount is returned when a parameter vector does not have NumParams entries.
var ErrParamCount = errors.New("model: parameter vector must have 6 entries")

// Params holds the six model parameters.
type Params struct {
	SA float64 // folded baseline intercept
	MA float64 // folded baseline slope (1/K)
	SB float64 // unfolded baseline intercept
	MB float64 // unfolded baseline slope (1/K)
	DH float64 // enthalpy of unfolding (J/mol)
	Tm float64 // midpoint temperature (K)
}

// FromVector builds Params from the ordered vector [sa, ma, sb, mb, dH, tm].
func FromVector(v []float64) (Params, error) {
	if len(v) != NumParams {
		return Params{}, fmt.Errorf("%w: got %d", ErrParamCount, len(v))
	}

	return Params{
		SA: v[IndexSA],
		MA: v[IndexMA],
		SB: v[IndexSB],
		MB: v[IndexMB],
		DH: v[IndexDH],
		Tm: v[IndexTm],
	}, nil
}

// Vector returns the parameters as [sa, ma, sb, mb, dH, tm].
func (p Params) Vector() []float64 {
	return []float64{p.SA, p.MA, p.SB, p.MB, p.DH, p.Tm}
}

// Finite reports whether every parameter is a finite number.
func (p Params) Finite() bool {
	for _, v := range p.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

func (p Params) String() string {
	return fmt.Sprintf("sa=%g ma=%g sb=%g mb=%g dH=%g tm=%g", p.SA, p.MA, p.SB, p.MB, p.DH, p.Tm)
}

// exponent returns z = -dH·(1/tm - 1/T)/R, so that K = exp(z).
func exponent(t float64, p Params) float64 {
	return -p.DH * (1/p.Tm - 1/t) / R
}

// logistic returns 1/(1+exp(-z)) without overflowing for large |z|.
func logistic(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}

	e := math.Exp(z)

	return e / (1 + e)
}

// Fraction returns K/(1+K), the equilibrium population carried by the
// sb + mb·T baseline at temperature t. For dH > 0 this is the state that
// dominates below tm.
func Fraction(t float64, p Params) float64 {
	return logistic(exponent(t, p))
}

// Eval returns the predicted signal at temperature t.
//
// The result equals (A + B·K)/(1 + K) with A = sa + ma·t and B = sb + mb·t,
// evaluated as A + (B-A)·f to stay finite when K overflows.
// t = 0 is not special-cased.
func Eval(t float64, p Params) float64 {
	a := p.SA + p.MA*t
	b := p.SB + p.MB*t

	return a + (b-a)*Fraction(t, p)
}

// EvalAll writes Eval(ts[i], p) into dst and returns it. A nil or short dst is
// replaced by a new slice of len(ts).
func EvalAll(dst, ts []float64, p Params) []float64 {
	if len(dst) < len(ts) {
		dst = make([]float64, len(ts))
	}
	dst = dst[:len(ts)]

	for i, t := range ts {
		dst[i] = Eval(t, p)
	}

	return dst
}

// Gradient writes the partial derivatives of Eval(t, p) with respect to
// [sa, ma, sb, mb, dH, tm] into dst, which must have length NumParams.
func Gradient(dst []float64, t float64, p Params) {
	if len(dst) != NumParams {
		panic("model: gradient destination must have 6 entries")
	}

	f := Fraction(t, p)
	a := p.SA + p.MA*t
	b := p.SB + p.MB*t
	dz := (b - a) * f * (1 - f) // ∂y/∂z

	dst[IndexSA] = 1 - f
	dst[IndexMA] = t * (1 - f)
	dst[IndexSB] = f
	dst[IndexMB] = t * f
	dst[IndexDH] = dz * -(1/p.Tm - 1/t) / R
	dst[IndexTm] = dz * p.DH / (R * p.Tm * p.Tm)
}

// Gibbs returns the free energy of unfolding at temperature t in J/mol,
// dH·(1 - t/tm), assuming no heat capacity change. The model exponent is
// Gibbs(t, p)/(R·t).
func Gibbs(t float64, p Params) float64 {
	return p.DH * (1 - t/p.Tm)
}

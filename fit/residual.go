package fit

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/tobias-fritz/thermal-denaturation/model"
)

// Residuals returns y[i] - model.Eval(x[i], p) for every observation.
// x and y must have equal length.
func Residuals(p model.Params, x, y []float64) ([]float64, error) {
	return ResidualsTo(nil, p, x, y)
}

// ResidualsTo is like Residuals but writes into dst, reusing its capacity
// when it is large enough.
func ResidualsTo(dst []float64, p model.Params, x, y []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d temperatures, %d observations", ErrLengthMismatch, len(x), len(y))
	}

	dst = model.EvalAll(dst, x, p)
	for i := range dst {
		dst[i] = y[i] - dst[i]
	}

	return dst, nil
}

// SumSquares returns the residual sum of squares Σ r[i]².
func SumSquares(r []float64) float64 {
	sq := make([]float64, len(r))
	vecmath.MulBlock(sq, r, r)

	return floats.Sum(sq)
}

// Package fit estimates two-state denaturation parameters from
// temperature/signal observations by nonlinear least squares.
//
// The solver is a Levenberg-Marquardt iteration with the damping update of
// Madsen, Nielsen and Tingleff. Parameters are scaled by the magnitude of the
// initial guess so that the enthalpy (~1e5 J/mol) and the baseline slopes
// (~1e-3 1/K) are handled on a comparable footing.
//
// Fit always returns the best parameter vector it reached. Whether a
// stopping criterion was met is reported in Result.Converged; WithStrict
// turns an unconverged run into ErrNotConverged.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tobias-fritz/thermal-denaturation/model"
)

// Errors returned by the solver.
var (
	ErrLengthMismatch   = errors.New("fit: temperature and observation lengths differ")
	ErrInsufficientData = errors.New("fit: fewer observations than parameters")
	ErrNonFiniteGuess   = errors.New("fit: initial guess is not finite")
	ErrNotConverged     = errors.New("fit: did not converge")
)

// Status describes why the solver stopped.
type Status int

const (
	// StatusGradientTolerance means the scaled gradient vanished.
	StatusGradientTolerance Status = iota + 1
	// StatusStepTolerance means the step became negligible.
	StatusStepTolerance
	// StatusCostTolerance means the relative cost decrease became negligible.
	StatusCostTolerance
	// StatusIterationLimit means MaxIterations was reached first.
	StatusIterationLimit
	// StatusNumerical means the model produced non-finite values or the
	// damping diverged.
	StatusNumerical
)

func (s Status) String() string {
	switch s {
	case StatusGradientTolerance:
		return "gradient tolerance reached"
	case StatusStepTolerance:
		return "step tolerance reached"
	case StatusCostTolerance:
		return "cost tolerance reached"
	case StatusIterationLimit:
		return "iteration limit reached"
	case StatusNumerical:
		return "numerical failure"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Converged reports whether s is one of the tolerance-based stops.
func (s Status) Converged() bool {
	return s == StatusGradientTolerance || s == StatusStepTolerance || s == StatusCostTolerance
}

// Result holds the outcome of a fit.
type Result struct {
	Params      model.Params
	RSS         float64   // residual sum of squares at Params
	StdErr      []float64 // standard error per parameter, NaN when not estimable
	Iterations  int
	Evaluations int // residual evaluations, excluding Jacobian probes
	Status      Status
	Converged   bool
}

// Cost returns the objective value RSS/2.
func (r Result) Cost() float64 {
	return r.RSS / 2
}

// FitVector fits the model starting from the ordered vector
// [sa, ma, sb, mb, dH, tm] and returns the optimized vector. The vector is
// nil when the input is rejected and populated when err wraps
// ErrNotConverged.
func FitVector(x, y, initial []float64, opts ...Option) ([]float64, error) {
	p, err := model.FromVector(initial)
	if err != nil {
		return nil, err
	}

	res, err := Fit(x, y, p, opts...)
	if err != nil && !errors.Is(err, ErrNotConverged) {
		return nil, err
	}

	return res.Params.Vector(), err
}

// Fit minimizes the sum of squared residuals of y against the model at x,
// starting from initial. The result is populated even when err wraps
// ErrNotConverged.
func Fit(x, y []float64, initial model.Params, opts ...Option) (Result, error) {
	cfg := ApplyOptions(opts...)

	if len(x) != len(y) {
		return Result{}, fmt.Errorf("%w: %d temperatures, %d observations", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < model.NumParams {
		return Result{}, fmt.Errorf("%w: %d < %d", ErrInsufficientData, len(x), model.NumParams)
	}
	if !initial.Finite() {
		return Result{}, fmt.Errorf("%w: %v", ErrNonFiniteGuess, initial)
	}

	s := newSolver(x, y, initial, cfg)
	res := s.run(initial)

	if cfg.Logger != nil {
		cfg.Logger.Printf("%s after %d iterations, %d evaluations, rss=%.6e",
			res.Status, res.Iterations, res.Evaluations, res.RSS)
	}

	if cfg.Strict && !res.Converged {
		return res, fmt.Errorf("%w: %s after %d iterations", ErrNotConverged, res.Status, res.Iterations)
	}

	return res, nil
}

// solver carries the working state of one Levenberg-Marquardt run. Internally
// it works on u where p[i] = u[i]·scale[i].
type solver struct {
	cfg   Config
	x, y  []float64
	scale []float64

	res   []float64 // residuals at the current point
	trial []float64 // residuals at the trial point
	grad  []float64 // model gradient scratch

	jac *mat.Dense
	a   *mat.SymDense
	g   *mat.VecDense

	evals int
}

func newSolver(x, y []float64, initial model.Params, cfg Config) *solver {
	m, n := len(x), model.NumParams

	scale := initial.Vector()
	for i, v := range scale {
		scale[i] = math.Abs(v)
		if scale[i] == 0 {
			scale[i] = 1
		}
	}

	return &solver{
		cfg:   cfg,
		x:     x,
		y:     y,
		scale: scale,
		res:   make([]float64, m),
		trial: make([]float64, m),
		grad:  make([]float64, n),
		jac:   mat.NewDense(m, n, nil),
		a:     mat.NewSymDense(n, nil),
		g:     mat.NewVecDense(n, nil),
	}
}

func (s *solver) params(u []float64) model.Params {
	v := make([]float64, len(u))
	floats.MulTo(v, u, s.scale)
	p, err := model.FromVector(v)
	if err != nil {
		panic(err)
	}

	return p
}

// residualsAt writes the residuals at u into dst.
func (s *solver) residualsAt(dst, u []float64) {
	p := s.params(u)
	for i, t := range s.x {
		dst[i] = s.y[i] - model.Eval(t, p)
	}
}

// eval writes the residuals at u into dst and returns ½Σr². ok is false when
// any residual is non-finite.
func (s *solver) eval(dst, u []float64) (cost float64, ok bool) {
	s.evals++
	s.residualsAt(dst, u)
	cost = SumSquares(dst) / 2

	return cost, !math.IsNaN(cost) && !math.IsInf(cost, 0)
}

// linearize refreshes J, A = JᵀJ and g = Jᵀr at u. s.res must hold the
// residuals at u.
func (s *solver) linearize(u []float64) {
	if s.cfg.NumericJacobian {
		fd.Jacobian(s.jac, s.residualsAt, u, &fd.JacobianSettings{Formula: fd.Central})
	} else {
		p := s.params(u)
		for i, t := range s.x {
			model.Gradient(s.grad, t, p)
			for j, d := range s.grad {
				s.jac.Set(i, j, -d*s.scale[j])
			}
		}
	}

	s.a.SymOuterK(1, s.jac.T())
	s.g.MulVec(s.jac.T(), mat.NewVecDense(len(s.res), s.res))
}

func (s *solver) run(initial model.Params) Result {
	n := model.NumParams
	u := initial.Vector()
	floats.Div(u, s.scale)

	cost, ok := s.eval(s.res, u)
	if !ok {
		return s.result(u, cost, 0, StatusNumerical)
	}
	s.linearize(u)

	if mat.Norm(s.g, math.Inf(1)) <= s.cfg.GradientTol {
		return s.result(u, cost, 0, StatusGradientTolerance)
	}

	mu, nu := s.initialDamping(), 2.0
	// A cost-tolerance stop is only accepted when it repeats on the first
	// step after the damping has been reset.
	fresh, pending := true, false

	damped := mat.NewSymDense(n, nil)
	h := mat.NewVecDense(n, nil)
	next := make([]float64, n)
	var chol mat.Cholesky

	for iter := 1; iter <= s.cfg.MaxIterations; iter++ {
		damped.CopySym(s.a)
		for i := 0; i < n; i++ {
			damped.SetSym(i, i, damped.At(i, i)+mu)
		}

		if !chol.Factorize(damped) {
			mu *= nu
			nu *= 2
			fresh = false
			if math.IsInf(mu, 0) {
				return s.result(u, cost, iter, StatusNumerical)
			}
			continue
		}
		if err := chol.SolveVecTo(h, s.g); err != nil {
			mu *= nu
			nu *= 2
			fresh = false
			continue
		}
		h.ScaleVec(-1, h)

		step := h.RawVector().Data
		if floats.Norm(step, 2) <= s.cfg.StepTol*(floats.Norm(u, 2)+s.cfg.StepTol) {
			return s.result(u, cost, iter, StatusStepTolerance)
		}

		floats.AddTo(next, u, step)
		trialCost, ok := s.eval(s.trial, next)

		// Predicted decrease of the linear model, ½hᵀ(μh - g).
		predicted := 0.5 * (mu*floats.Dot(step, step) - mat.Dot(h, s.g))
		rho := -1.0
		if ok && predicted > 0 {
			rho = (cost - trialCost) / predicted
		}

		if rho <= 0 {
			mu *= nu
			nu *= 2
			fresh = false
			if math.IsInf(mu, 0) {
				return s.result(u, cost, iter, StatusNumerical)
			}
			continue
		}

		prevCost := cost
		copy(u, next)
		s.res, s.trial = s.trial, s.res
		cost = trialCost
		s.linearize(u)

		if s.cfg.Logger != nil {
			s.cfg.Logger.Printf("iteration %d: rss=%.6e step=%.3e mu=%.3e",
				iter, 2*cost, floats.Norm(step, 2), mu)
		}

		if mat.Norm(s.g, math.Inf(1)) <= s.cfg.GradientTol {
			return s.result(u, cost, iter, StatusGradientTolerance)
		}
		if prevCost-cost <= s.cfg.CostTol*prevCost {
			if pending && fresh {
				return s.result(u, cost, iter, StatusCostTolerance)
			}
			pending, fresh = true, true
			mu, nu = s.initialDamping(), 2
			continue
		}
		pending = false

		mu *= math.Max(1.0/3, 1-math.Pow(2*rho-1, 3))
		nu = 2
		fresh = false
	}

	return s.result(u, cost, s.cfg.MaxIterations, StatusIterationLimit)
}

// initialDamping returns tau times the largest diagonal entry of A = JᵀJ.
func (s *solver) initialDamping() float64 {
	mu := 0.0
	for i := 0; i < model.NumParams; i++ {
		mu = math.Max(mu, s.a.At(i, i))
	}
	if mu == 0 {
		return s.cfg.Tau
	}

	return mu * s.cfg.Tau
}

// result assembles the Result at u. A = JᵀJ must be current for u.
func (s *solver) result(u []float64, cost float64, iterations int, status Status) Result {
	return Result{
		Params:      s.params(u),
		RSS:         2 * cost,
		StdErr:      s.stdErr(cost, status),
		Iterations:  iterations,
		Evaluations: s.evals,
		Status:      status,
		Converged:   status.Converged(),
	}
}

// stdErr returns sqrt(diag(s²(JᵀJ)⁻¹)) mapped back to parameter units, with
// s² = RSS/(m-n).
func (s *solver) stdErr(cost float64, status Status) []float64 {
	n := model.NumParams
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	dof := len(s.x) - n
	if dof <= 0 || status == StatusNumerical {
		return out
	}

	var chol mat.Cholesky
	if !chol.Factorize(s.a) {
		return out
	}

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return out
	}

	s2 := 2 * cost / float64(dof)
	for i := range out {
		out[i] = s.scale[i] * math.Sqrt(s2*inv.At(i, i))
	}

	return out
}

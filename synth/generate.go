// Package synth generates reproducible synthetic denaturation curves for
// exercising the fitting pipeline.
//
// Parameters are drawn uniformly from physically motivated ranges, the model
// is evaluated on an evenly spaced temperature grid and independent Gaussian
// noise is added to every point. All randomness comes from a generator-owned
// source seeded per call, in the fixed order sa, ma, sb, mb, dH, tm followed
// by one noise value per point.
package synth

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/tobias-fritz/thermal-denaturation/model"
)

// DefaultSeed is the seed used by SampleData callers that have no preference.
const DefaultSeed int64 = 9470

const (
	defaultPoints = 40
	defaultLowK   = 293.0
	defaultHighK  = 363.0
	defaultNoise  = 0.15
)

// Range is a closed interval for a uniform draw.
type Range struct {
	Lo, Hi float64
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Lo + (r.Hi-r.Lo)*rng.Float64()
}

// Ranges bounds the uniform draws of each model parameter.
type Ranges struct {
	SA, MA, SB, MB, DH, Tm Range
}

// DefaultRanges returns the parameter ranges used for synthetic data.
func DefaultRanges() Ranges {
	return Ranges{
		SA: Range{3, 6},
		MA: Range{-0.005, 0},
		SB: Range{3, 6},
		MB: Range{-0.005, 0},
		DH: Range{200000, 400000},
		Tm: Range{317, 327},
	}
}

// Sample is one synthetic data set together with the parameters that produced it.
type Sample struct {
	Temperatures []float64 // K, ascending
	Signal       []float64 // model value plus noise
	Truth        model.Params
}

// Generator creates deterministic synthetic curves.
type Generator struct {
	seed   int64
	points int
	lo, hi float64
	noise  float64
	ranges Ranges
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithPoints sets the number of temperature points.
func WithPoints(n int) Option {
	return func(g *Generator) {
		g.points = n
	}
}

// WithRange sets the temperature interval in Kelvin.
func WithRange(lo, hi float64) Option {
	return func(g *Generator) {
		g.lo, g.hi = lo, hi
	}
}

// WithNoise sets the standard deviation of the additive Gaussian noise.
func WithNoise(sigma float64) Option {
	return func(g *Generator) {
		g.noise = sigma
	}
}

// WithRanges replaces the parameter ranges.
func WithRanges(r Ranges) Option {
	return func(g *Generator) {
		g.ranges = r
	}
}

// NewGenerator creates a generator with the default grid, noise and ranges.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		seed:   DefaultSeed,
		points: defaultPoints,
		lo:     defaultLowK,
		hi:     defaultHighK,
		noise:  defaultNoise,
		ranges: DefaultRanges(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Seed returns the configured seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// SetSeed changes the seed used by subsequent Generate calls.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
}

// Generate draws a parameter set and returns the noisy curve. Each call starts
// from a fresh source, so repeated calls with the same seed are identical.
func (g *Generator) Generate() (Sample, error) {
	if g.points < 2 {
		return Sample{}, fmt.Errorf("synth points must be >= 2: %d", g.points)
	}
	if !(g.lo < g.hi) {
		return Sample{}, fmt.Errorf("synth temperature range must satisfy lo < hi: [%f, %f]", g.lo, g.hi)
	}
	if g.noise < 0 {
		return Sample{}, fmt.Errorf("synth noise must be >= 0: %f", g.noise)
	}

	rng := rand.New(rand.NewSource(g.seed))

	truth := model.Params{
		SA: g.ranges.SA.draw(rng),
		MA: g.ranges.MA.draw(rng),
		SB: g.ranges.SB.draw(rng),
		MB: g.ranges.MB.draw(rng),
		DH: g.ranges.DH.draw(rng),
		Tm: g.ranges.Tm.draw(rng),
	}

	ts := floats.Span(make([]float64, g.points), g.lo, g.hi)
	signal := model.EvalAll(nil, ts, truth)
	for i := range signal {
		signal[i] += g.noise * rng.NormFloat64()
	}

	return Sample{Temperatures: ts, Signal: signal, Truth: truth}, nil
}

// SampleData returns the 40 noisy signal values generated with seed and the
// default settings.
func SampleData(seed int64) []float64 {
	s, err := NewGenerator(WithSeed(seed)).Generate()
	if err != nil {
		// Defaults are always valid.
		panic(err)
	}
	return s.Signal
}

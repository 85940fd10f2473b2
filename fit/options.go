package fit

import "log"

// Config holds solver settings.
type Config struct {
	// MaxIterations bounds the number of damped Gauss-Newton steps.
	MaxIterations int
	// GradientTol stops when the infinity norm of the scaled gradient drops below it.
	GradientTol float64
	// StepTol stops when ‖h‖ <= StepTol·(‖u‖ + StepTol) in scaled coordinates.
	StepTol float64
	// CostTol stops when an accepted step lowers the cost by less than CostTol
	// relative, twice in a row with the damping reset in between.
	CostTol float64
	// Tau sets the initial damping relative to the largest diagonal entry of JᵀJ.
	Tau float64
	// Strict turns non-convergence into ErrNotConverged.
	Strict bool
	// NumericJacobian uses central finite differences instead of the analytic gradient.
	NumericJacobian bool
	// Logger receives per-iteration progress when non-nil.
	Logger *log.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the solver defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 500,
		GradientTol:   1e-12,
		StepTol:       1e-10,
		CostTol:       1e-12,
		Tau:           1e-3,
	}
}

// WithMaxIterations sets the iteration limit.
func WithMaxIterations(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithTolerances sets the gradient, step and relative cost tolerances.
// Non-positive values keep the current setting.
func WithTolerances(gradient, step, cost float64) Option {
	return func(cfg *Config) {
		if gradient > 0 {
			cfg.GradientTol = gradient
		}
		if step > 0 {
			cfg.StepTol = step
		}
		if cost > 0 {
			cfg.CostTol = cost
		}
	}
}

// WithDamping sets the initial damping factor tau.
func WithDamping(tau float64) Option {
	return func(cfg *Config) {
		if tau > 0 {
			cfg.Tau = tau
		}
	}
}

// WithStrict makes Fit return ErrNotConverged when no stopping criterion
// other than the iteration limit was met.
func WithStrict() Option {
	return func(cfg *Config) {
		cfg.Strict = true
	}
}

// WithNumericJacobian switches to a central finite-difference Jacobian.
func WithNumericJacobian() Option {
	return func(cfg *Config) {
		cfg.NumericJacobian = true
	}
}

// WithLogger reports solver progress to l.
func WithLogger(l *log.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

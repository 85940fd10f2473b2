package fit

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOptionsDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ApplyOptions())
	assert.Equal(t, DefaultConfig(), ApplyOptions(nil))
}

func TestApplyOptions(t *testing.T) {
	l := log.Default()
	cfg := ApplyOptions(
		WithMaxIterations(42),
		WithTolerances(1e-6, 0, 1e-4),
		WithDamping(0.5),
		WithStrict(),
		WithNumericJacobian(),
		WithLogger(l),
	)

	assert.Equal(t, 42, cfg.MaxIterations)
	assert.Equal(t, 1e-6, cfg.GradientTol)
	assert.Equal(t, DefaultConfig().StepTol, cfg.StepTol)
	assert.Equal(t, 1e-4, cfg.CostTol)
	assert.Equal(t, 0.5, cfg.Tau)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.NumericJacobian)
	assert.Same(t, l, cfg.Logger)
}

func TestApplyOptionsIgnoresInvalid(t *testing.T) {
	cfg := ApplyOptions(WithMaxIterations(0), WithDamping(-1), WithTolerances(-1, -1, -1))
	assert.Equal(t, DefaultConfig(), cfg)
}

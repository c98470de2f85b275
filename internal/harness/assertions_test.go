package harness

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tritium/internal/engine"
	"github.com/roach88/tritium/internal/faults"
)

func ptr[T any](v T) *T { return &v }

func sampleResult() *engine.Result {
	return &engine.Result{
		Analysis: engine.Analysis{
			DoublingTime:  1.5,
			DoublingIndex: 10,
		},
		Store:            []float64{1, 1, 2, 3},
		StartupInventory: 2.5,
		MaxLoadFactor:    0.7,
		Released:         1e-6,
		Iterations:       4,
		Converged:        true,
	}
}

func names(checks []Check) []string {
	out := make([]string, len(checks))
	for i, c := range checks {
		out[i] = c.Name
	}
	return out
}

func TestEvaluate_AllPassing(t *testing.T) {
	exp := Expect{
		Converged:        ptr(true),
		MaxIterations:    4,
		StartupInventory: &Range{Min: ptr(2.0), Max: ptr(3.0)},
		MaxLoadFactor:    &Range{Max: ptr(0.8)},
		Doubling:         DoublingFinite,
		StoreMonotone:    true,
		MaxReleased:      ptr(1e-5),
	}
	checks := evaluate(exp, sampleResult(), nil)

	assert.Equal(t, []string{
		"converged", "max_iterations", "startup_inventory", "max_load_factor",
		"doubling", "store_monotone", "max_released",
	}, names(checks))
	for _, c := range checks {
		assert.True(t, c.Pass, "%s: %s", c.Name, c.Detail)
	}
}

func TestEvaluate_Failures(t *testing.T) {
	res := sampleResult()
	res.DoublingTime = math.Inf(1)
	res.Store = []float64{1, 2, 1.5}

	checks := evaluate(Expect{
		Converged:        ptr(false),
		MaxIterations:    3,
		StartupInventory: &Range{Max: ptr(1.0)},
		Doubling:         DoublingFinite,
		StoreMonotone:    true,
		MaxReleased:      ptr(0.0),
	}, res, nil)

	for _, c := range checks {
		assert.False(t, c.Pass, c.Name)
		assert.NotEmpty(t, c.Detail, c.Name)
	}
	assert.Contains(t, checks[3].Detail, "+Inf")
	assert.Contains(t, checks[4].Detail, "sample 2")
}

func TestEvaluate_MonotoneTolerance(t *testing.T) {
	c := checkMonotone([]float64{1, 1 - monotoneTolerance/2, 2})
	assert.True(t, c.Pass)
}

func TestEvaluate_ExpectedError(t *testing.T) {
	tests := []struct {
		name string
		want string
		err  error
		pass bool
	}{
		{"configuration", ErrorConfiguration, faults.Configf("f_dir", "out of range"), true},
		{"wrapped domain", ErrorNumericDomain, fmt.Errorf("run: %w", faults.Domainf("f_b", "zero")), true},
		{"convergence", ErrorConvergence, &faults.ConvergenceError{Iterations: 1, Limit: 1}, true},
		{"wrong kind", ErrorConvergence, faults.Configf("x", "bad"), false},
		{"no error", ErrorConfiguration, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := evaluate(Expect{Error: tt.want}, nil, tt.err)
			require.Len(t, checks, 1)
			assert.Equal(t, "error", checks[0].Name)
			assert.Equal(t, tt.pass, checks[0].Pass)
		})
	}
}

func TestEvaluate_UnexpectedError(t *testing.T) {
	checks := evaluate(Expect{Converged: ptr(true)}, nil, faults.Configf("timeline", "empty"))
	require.Len(t, checks, 1)
	assert.False(t, checks[0].Pass)
	assert.Contains(t, checks[0].Detail, "unexpected error")
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "", errorKind(nil))
	assert.Equal(t, "other", errorKind(context.Canceled))
	assert.Equal(t, ErrorNumericDomain, errorKind(faults.Domainf("q", "nan")))
}

package engine

import "github.com/roach88/tritium/internal/faults"

// iterationBudget counts network evaluations against the configured cap.
//
// The convergence loop is a fixed-point iteration with no structural
// guarantee of termination, so every evaluation is charged here before it
// runs.
type iterationBudget struct {
	limit   int
	current int
}

func newIterationBudget(limit int) *iterationBudget {
	return &iterationBudget{limit: limit}
}

// Spend charges one evaluation. It reports false once the limit is reached.
func (b *iterationBudget) Spend() bool {
	if b.current >= b.limit {
		return false
	}
	b.current++
	return true
}

// Used returns the number of evaluations charged so far.
func (b *iterationBudget) Used() int { return b.current }

// exceeded builds the error reported when the budget runs out.
func (b *iterationBudget) exceeded(residual, seed float64) error {
	return &faults.ConvergenceError{
		Iterations: b.current,
		Limit:      b.limit,
		Residual:   residual,
		Seed:       seed,
	}
}

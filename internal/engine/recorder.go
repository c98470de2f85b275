package engine

import "time"

// Outcome classifies how a run ended.
type Outcome string

const (
	// OutcomeConverged means the seed update fell below the threshold.
	OutcomeConverged Outcome = "converged"

	// OutcomeBestEffort means the iteration cap was reached and the last
	// iterate was returned.
	OutcomeBestEffort Outcome = "best_effort"

	// OutcomeNotConverged means the iteration cap was reached and the run
	// failed with a ConvergenceError.
	OutcomeNotConverged Outcome = "not_converged"

	// OutcomeFailed covers configuration, numeric domain and cancellation
	// errors.
	OutcomeFailed Outcome = "failed"
)

// Recorder receives run instrumentation. Implementations must be safe for
// concurrent use when shared between Models.
type Recorder interface {
	// Iteration is called after every network evaluation.
	Iteration(residual float64)

	// Finished is called once per Run.
	Finished(outcome Outcome, iterations int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Iteration(float64)                    {}
func (nopRecorder) Finished(Outcome, int, time.Duration) {}

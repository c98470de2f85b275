package harness

import (
	"github.com/roach88/tritium/internal/engine"
	"github.com/roach88/tritium/internal/store"
)

// Check is the verdict of one expectation.
type Check struct {
	Name   string `json:"name"`
	Pass   bool   `json:"pass"`
	Detail string `json:"detail,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	Name string `json:"name"`

	// Pass is true if every check passed.
	Pass bool `json:"pass"`

	Outcome engine.Outcome `json:"outcome"`

	// ErrorKind classifies a failed run; empty on success.
	ErrorKind string `json:"error_kind,omitempty"`

	// RunID is the ID of the persisted run; empty on failure.
	RunID string `json:"run_id,omitempty"`

	Checks []Check `json:"checks"`

	// Errors holds one message per failed check.
	Errors []string `json:"errors,omitempty"`

	// Run is the stored summary of a successful run.
	Run *store.Run `json:"run,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:    name,
		Pass:    true,
		Outcome: engine.OutcomeFailed,
		Checks:  []Check{},
		Errors:  []string{},
	}
}

// AddCheck records a check and fails the result if it did not pass.
func (r *Result) AddCheck(c Check) {
	r.Checks = append(r.Checks, c)
	if !c.Pass {
		r.Pass = false
		r.Errors = append(r.Errors, c.Name+": "+c.Detail)
	}
}

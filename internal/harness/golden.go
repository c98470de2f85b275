package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tritium/internal/canonical"
)

// Snapshot returns the canonical JSON summary of a result: outcome, error
// kind, run ID and check verdicts. Numeric results are left out so that
// snapshots survive floating-point differences between platforms.
func Snapshot(result *Result) ([]byte, error) {
	checks := make([]any, len(result.Checks))
	for i, c := range result.Checks {
		checks[i] = map[string]any{"name": c.Name, "pass": c.Pass}
	}
	snap := map[string]any{
		"name":    result.Name,
		"pass":    result.Pass,
		"outcome": string(result.Outcome),
		"checks":  checks,
	}
	if result.ErrorKind != "" {
		snap["error_kind"] = result.ErrorKind
	}
	if result.RunID != "" {
		snap["run_id"] = result.RunID
	}
	return canonical.Marshal(snap)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares result's snapshot against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

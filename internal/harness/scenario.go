package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a fuel cycle acceptance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	Timeline TimelineSource `yaml:"timeline"`
	Params   ParamsSource   `yaml:"params,omitempty"`
	Engine   EngineSettings `yaml:"engine,omitempty"`
	Expect   Expect         `yaml:"expect"`
}

// TimelineSource selects exactly one way of producing the timeline.
type TimelineSource struct {
	File    string           `yaml:"file,omitempty"`
	Pulsed  *PulsedTimeline  `yaml:"pulsed,omitempty"`
	Uniform *UniformTimeline `yaml:"uniform,omitempty"`
}

// PulsedTimeline generates daily samples of an on/off burn pattern.
type PulsedTimeline struct {
	Days           int     `yaml:"days"`
	On             int     `yaml:"on"`
	Off            int     `yaml:"off"`
	DTRate         float64 `yaml:"dt_rate"`
	BlanketChanges []int   `yaml:"blanket_changes,omitempty"`
}

// UniformTimeline generates evenly spaced samples at constant rates.
type UniformTimeline struct {
	Years      float64 `yaml:"years"`
	Samples    int     `yaml:"samples"`
	DTRate     float64 `yaml:"dt_rate"`
	DDRate     float64 `yaml:"dd_rate"`
	LoadFactor float64 `yaml:"load_factor"`
}

// ParamsSource starts from the defaults or a parameter file and applies
// key overrides.
type ParamsSource struct {
	File string         `yaml:"file,omitempty"`
	Set  map[string]any `yaml:"set,omitempty"`
}

// EngineSettings maps onto engine options. Zero values keep the engine
// defaults.
type EngineSettings struct {
	Timestep      float64  `yaml:"timestep,omitempty"`
	Threshold     float64  `yaml:"threshold,omitempty"`
	MaxIterations int      `yaml:"max_iterations,omitempty"`
	Steps         int      `yaml:"steps,omitempty"`
	InitialSeed   float64  `yaml:"initial_seed,omitempty"`
	DecayConstant *float64 `yaml:"decay_constant,omitempty"`
	BestEffort    bool     `yaml:"best_effort,omitempty"`
}

// Range is a closed interval. A nil bound is open.
type Range struct {
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

func (r Range) String() string {
	lo, hi := "-inf", "+inf"
	if r.Min != nil {
		lo = fmt.Sprintf("%g", *r.Min)
	}
	if r.Max != nil {
		hi = fmt.Sprintf("%g", *r.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

// Expect lists the outcome checks. Unset fields are not checked.
type Expect struct {
	Error            string   `yaml:"error,omitempty"`
	Converged        *bool    `yaml:"converged,omitempty"`
	MaxIterations    int      `yaml:"max_iterations,omitempty"`
	StartupInventory *Range   `yaml:"startup_inventory,omitempty"`
	MaxLoadFactor    *Range   `yaml:"max_load_factor,omitempty"`
	Doubling         string   `yaml:"doubling,omitempty"`
	StoreMonotone    bool     `yaml:"store_monotone,omitempty"`
	MaxReleased      *float64 `yaml:"max_released,omitempty"`
}

// Expected error kinds.
const (
	ErrorConfiguration = "configuration"
	ErrorNumericDomain = "numeric_domain"
	ErrorConvergence   = "convergence"
)

// Doubling expectations.
const (
	DoublingFinite   = "finite"
	DoublingInfinite = "infinite"
)

// hasResultChecks reports whether any check needs a successful run.
func (e Expect) hasResultChecks() bool {
	return e.Converged != nil || e.MaxIterations > 0 || e.StartupInventory != nil ||
		e.MaxLoadFactor != nil || e.Doubling != "" || e.StoreMonotone || e.MaxReleased != nil
}

// LoadScenario reads and parses a scenario YAML file. Relative file
// references are resolved against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	scenario.Timeline.File = resolve(base, scenario.Timeline.File)
	scenario.Params.File = resolve(base, scenario.Params.File)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	sources := 0
	if s.Timeline.File != "" {
		sources++
		if _, err := os.Stat(s.Timeline.File); os.IsNotExist(err) {
			return fmt.Errorf("timeline file not found: %s", s.Timeline.File)
		}
	}
	if s.Timeline.Pulsed != nil {
		sources++
		p := s.Timeline.Pulsed
		if p.Days < 1 || p.On < 0 || p.Off < 0 || p.On+p.Off == 0 {
			return fmt.Errorf("timeline.pulsed: days must be positive and on+off non-zero")
		}
	}
	if s.Timeline.Uniform != nil {
		sources++
		if s.Timeline.Uniform.Samples < 2 {
			return fmt.Errorf("timeline.uniform: samples must be at least 2")
		}
	}
	if sources != 1 {
		return fmt.Errorf("timeline: exactly one of file, pulsed or uniform is required")
	}

	if s.Params.File != "" {
		if _, err := os.Stat(s.Params.File); os.IsNotExist(err) {
			return fmt.Errorf("params file not found: %s", s.Params.File)
		}
	}

	switch s.Expect.Error {
	case "", ErrorConfiguration, ErrorNumericDomain, ErrorConvergence:
	default:
		return fmt.Errorf("expect.error: unknown error kind %q", s.Expect.Error)
	}
	switch s.Expect.Doubling {
	case "", DoublingFinite, DoublingInfinite:
	default:
		return fmt.Errorf("expect.doubling: must be %q or %q", DoublingFinite, DoublingInfinite)
	}
	if s.Expect.Error != "" && s.Expect.hasResultChecks() {
		return fmt.Errorf("expect: error cannot be combined with result checks")
	}
	if s.Expect.Error == "" && !s.Expect.hasResultChecks() {
		return fmt.Errorf("expect: at least one check is required")
	}
	if s.Expect.MaxIterations < 0 {
		return fmt.Errorf("expect.max_iterations: must be non-negative")
	}
	return nil
}

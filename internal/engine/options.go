package engine

import (
	"log/slog"

	"github.com/roach88/tritium/internal/units"
)

const (
	// DefaultTimestep is the fine axis spacing [s].
	DefaultTimestep = 1200.0

	// DefaultConvergenceThreshold is the relative seed change at which the
	// iteration stops.
	DefaultConvergenceThreshold = 2e-4

	// DefaultMaxIterations bounds the convergence loop.
	DefaultMaxIterations = 100

	// DefaultInitialSeed is the first guess for the store inventory [kg].
	DefaultInitialSeed = 5.0
)

type config struct {
	timestep   float64
	threshold  float64
	maxIter    int
	steps      int
	lambda     float64
	seed       float64
	logger     *slog.Logger
	recorder   Recorder
	bestEffort bool
}

func defaultConfig() config {
	return config{
		timestep:  DefaultTimestep,
		threshold: DefaultConvergenceThreshold,
		maxIter:   DefaultMaxIterations,
		lambda:    units.TritiumDecayConstant,
		seed:      DefaultInitialSeed,
		logger:    slog.New(slog.DiscardHandler),
		recorder:  nopRecorder{},
	}
}

// Option configures a Model.
type Option func(*config)

// WithTimestep sets the fine axis spacing [s].
func WithTimestep(seconds float64) Option {
	return func(c *config) { c.timestep = seconds }
}

// WithConvergenceThreshold sets the relative tolerance of the seed update.
func WithConvergenceThreshold(x float64) Option {
	return func(c *config) { c.threshold = x }
}

// WithMaxIterations caps the number of network evaluations.
//
// Default: 100 (DefaultMaxIterations)
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIter = n }
}

// WithSteps truncates the timeline to its first n samples. Zero keeps the
// whole timeline.
func WithSteps(n int) Option {
	return func(c *config) { c.steps = n }
}

// WithDecayConstant overrides the tritium decay constant [1/yr]. Zero
// disables decay, which is mainly useful for conservation checks.
func WithDecayConstant(lambda float64) Option {
	return func(c *config) { c.lambda = lambda }
}

// WithInitialSeed sets the first store inventory guess [kg].
func WithInitialSeed(kg float64) Option {
	return func(c *config) { c.seed = kg }
}

// WithLogger routes iteration logs to l. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder attaches run instrumentation.
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithBestEffort makes a run that hits the iteration cap return its last
// iterate with Converged=false instead of a ConvergenceError.
func WithBestEffort(on bool) Option {
	return func(c *config) { c.bestEffort = on }
}

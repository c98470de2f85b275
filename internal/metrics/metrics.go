// Package metrics exposes fuel cycle run instrumentation as Prometheus
// collectors. A *Metrics satisfies engine.Recorder.
package metrics

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/tritium/internal/engine"
)

// Metrics provides observability for fuel cycle runs.
type Metrics struct {
	registry *prometheus.Registry

	// Run outcomes by engine.Outcome
	RunOutcome *prometheus.CounterVec

	// Network evaluations per run
	RunIterations prometheus.Histogram

	// Wall time of a full convergence loop
	RunDuration prometheus.Histogram

	// Relative residual after each evaluation
	Residual prometheus.Histogram
}

// New creates a Metrics instance registered on its own registry, so that
// several instances can coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		RunOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tritium_runs_total",
			Help: "Total fuel cycle runs by outcome",
		}, []string{"outcome"}),

		RunIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tritium_run_iterations",
			Help:    "Network evaluations needed per run",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 50, 100},
		}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tritium_run_duration_seconds",
			Help:    "Duration of a run including every network evaluation",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		Residual: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tritium_iteration_residual",
			Help:    "Relative start-up inventory change per evaluation",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Iteration records one evaluation's residual. Non-finite residuals (the
// first evaluation from a zero requirement) are skipped.
func (m *Metrics) Iteration(residual float64) {
	if m == nil || math.IsInf(residual, 0) || math.IsNaN(residual) {
		return
	}
	m.Residual.Observe(residual)
}

// Finished records the end of a run.
func (m *Metrics) Finished(outcome engine.Outcome, iterations int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunOutcome.WithLabelValues(string(outcome)).Inc()
	m.RunIterations.Observe(float64(iterations))
	m.RunDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the current values in the Prometheus text format,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

var _ engine.Recorder = (*Metrics)(nil)

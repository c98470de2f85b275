package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/tritium/internal/canonical"
	"github.com/roach88/tritium/internal/engine"
	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/params"
	"github.com/roach88/tritium/internal/store"
	"github.com/roach88/tritium/internal/testutil"
	"github.com/roach88/tritium/internal/timeline"
)

// Harness executes scenarios against one store.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with sequential run IDs.
// A failing run is reported through the result; the error return is kept
// for harness infrastructure failures.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewSequentialIDs("run")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		logger: slog.New(slog.DiscardHandler),
	}
	return h.run(ctx, scenario)
}

// outcomeRecorder captures how the engine classified its run.
type outcomeRecorder struct {
	mu      sync.Mutex
	outcome engine.Outcome
}

func (r *outcomeRecorder) Iteration(float64) {}

func (r *outcomeRecorder) Finished(o engine.Outcome, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcome = o
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult(scenario.Name)
	rec := &outcomeRecorder{outcome: engine.OutcomeFailed}

	tl, p, err := buildInputs(scenario)
	var res *engine.Result
	if err == nil {
		opts := append(engineOptions(scenario.Engine), engine.WithLogger(h.logger), engine.WithRecorder(rec))
		res, err = engine.New(p, opts...).Run(ctx, tl)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	result.Outcome = rec.outcome
	result.ErrorKind = errorKind(err)

	if err == nil {
		run, err := h.persist(ctx, scenario, p, tl, res)
		if err != nil {
			return nil, err
		}
		result.RunID = run.ID
		result.Run = &run
	}

	for _, c := range evaluate(scenario.Expect, res, err) {
		result.AddCheck(c)
	}
	h.logger.Debug("scenario finished", "scenario", scenario.Name, "pass", result.Pass, "outcome", result.Outcome)
	return result, nil
}

// persist writes the run and returns the stored summary.
func (h *Harness) persist(ctx context.Context, scenario *Scenario, p params.Params, tl *timeline.Timeline, res *engine.Result) (store.Run, error) {
	settings := scenario.Engine.canonical()
	hash, err := canonical.InputHash(p, tl, settings)
	if err != nil {
		return store.Run{}, err
	}
	pj, err := canonical.ParamsJSON(p)
	if err != nil {
		return store.Run{}, err
	}
	rec := store.NewRecord(res, hash, scenario.Name, pj, scenario.Engine.timestep())
	return h.store.WriteRun(ctx, rec)
}

func buildInputs(s *Scenario) (*timeline.Timeline, params.Params, error) {
	var (
		tl  *timeline.Timeline
		err error
	)
	switch src := s.Timeline; {
	case src.File != "":
		tl, err = timeline.Load(src.File)
	case src.Pulsed != nil:
		g := src.Pulsed
		tl = testutil.PulsedTimeline(g.Days, g.On, g.Off, g.DTRate, g.BlanketChanges...)
	case src.Uniform != nil:
		g := src.Uniform
		tl = testutil.UniformTimeline(g.Years, g.Samples, g.DTRate, g.DDRate, g.LoadFactor)
	}
	if err != nil {
		return nil, params.Params{}, err
	}

	p := params.Defaults()
	if s.Params.File != "" {
		if p, err = params.Load(s.Params.File); err != nil {
			return nil, params.Params{}, err
		}
	}
	p, err = p.With(s.Params.Set)
	if err != nil {
		return nil, params.Params{}, err
	}
	return tl, p, nil
}

func engineOptions(e EngineSettings) []engine.Option {
	var opts []engine.Option
	if e.Timestep != 0 {
		opts = append(opts, engine.WithTimestep(e.Timestep))
	}
	if e.Threshold != 0 {
		opts = append(opts, engine.WithConvergenceThreshold(e.Threshold))
	}
	if e.MaxIterations != 0 {
		opts = append(opts, engine.WithMaxIterations(e.MaxIterations))
	}
	if e.Steps != 0 {
		opts = append(opts, engine.WithSteps(e.Steps))
	}
	if e.InitialSeed != 0 {
		opts = append(opts, engine.WithInitialSeed(e.InitialSeed))
	}
	if e.DecayConstant != nil {
		opts = append(opts, engine.WithDecayConstant(*e.DecayConstant))
	}
	if e.BestEffort {
		opts = append(opts, engine.WithBestEffort(true))
	}
	return opts
}

func (e EngineSettings) timestep() float64 {
	if e.Timestep != 0 {
		return e.Timestep
	}
	return engine.DefaultTimestep
}

// canonical returns the settings that change a run's result, for the input
// hash. Defaults are spelled out so that the hash matches a CLI run of the
// same inputs.
func (e EngineSettings) canonical() map[string]any {
	m := map[string]any{
		"timestep":       e.timestep(),
		"threshold":      engine.DefaultConvergenceThreshold,
		"max_iterations": engine.DefaultMaxIterations,
		"best_effort":    e.BestEffort,
	}
	if e.Threshold != 0 {
		m["threshold"] = e.Threshold
	}
	if e.MaxIterations != 0 {
		m["max_iterations"] = e.MaxIterations
	}
	if e.Steps != 0 {
		m["steps"] = e.Steps
	}
	if e.InitialSeed != 0 {
		m["initial_seed"] = e.InitialSeed
	}
	if e.DecayConstant != nil {
		m["decay_constant"] = *e.DecayConstant
	}
	return m
}

// errorKind classifies err by its fault type.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case faults.IsConfiguration(err):
		return ErrorConfiguration
	case faults.IsNumericDomain(err):
		return ErrorNumericDomain
	case faults.IsConvergence(err):
		return ErrorConvergence
	default:
		return "other"
	}
}

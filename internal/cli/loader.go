package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/tritium/internal/engine"
	"github.com/roach88/tritium/internal/params"
	"github.com/roach88/tritium/internal/timeline"
)

// InputOptions are the flags that select a timeline and parameter set.
type InputOptions struct {
	Timeline string
	Params   string
	Set      []string
}

func (o *InputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Timeline, "timeline", "", "timeline file (.yaml, .yml or .json) (required)")
	_ = cmd.MarkFlagRequired("timeline")
	cmd.Flags().StringVar(&o.Params, "params", "", "parameter file (.cue, .yaml, .yml or .json); defaults if omitted")
	cmd.Flags().StringArrayVar(&o.Set, "set", nil, "override a parameter, key=value (repeatable)")
}

// load reads the timeline and parameter set. Overrides are applied on top
// of the parameter file and the result is validated against the schema.
func (o *InputOptions) load() (*timeline.Timeline, params.Params, error) {
	tl, err := timeline.Load(o.Timeline)
	if err != nil {
		return nil, params.Params{}, err
	}
	p := params.Defaults()
	if o.Params != "" {
		if p, err = params.Load(o.Params); err != nil {
			return nil, params.Params{}, err
		}
	}
	overrides, err := params.ParseOverrides(o.Set)
	if err != nil {
		return nil, params.Params{}, err
	}
	if p, err = p.With(overrides); err != nil {
		return nil, params.Params{}, err
	}
	if err := p.Validate(); err != nil {
		return nil, params.Params{}, err
	}
	return tl, p, nil
}

// EngineOptions are the flags that tune the convergence loop.
type EngineOptions struct {
	Timestep      float64
	Threshold     float64
	MaxIterations int
	BestEffort    bool
}

func (o *EngineOptions) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.Timestep, "timestep", engine.DefaultTimestep, "fine axis spacing [s]")
	cmd.Flags().Float64Var(&o.Threshold, "threshold", engine.DefaultConvergenceThreshold, "relative convergence threshold")
	cmd.Flags().IntVar(&o.MaxIterations, "max-iterations", engine.DefaultMaxIterations, "iteration cap")
	cmd.Flags().BoolVar(&o.BestEffort, "best-effort", false, "return the last iterate instead of failing at the cap")
}

func (o *EngineOptions) options() []engine.Option {
	return []engine.Option{
		engine.WithTimestep(o.Timestep),
		engine.WithConvergenceThreshold(o.Threshold),
		engine.WithMaxIterations(o.MaxIterations),
		engine.WithBestEffort(o.BestEffort),
	}
}

// settings returns the options that change a run's result, for the input
// hash.
func (o *EngineOptions) settings() map[string]any {
	return map[string]any{
		"timestep":       o.Timestep,
		"threshold":      o.Threshold,
		"max_iterations": o.MaxIterations,
		"best_effort":    o.BestEffort,
	}
}

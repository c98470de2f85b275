package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/tritium/internal/canonical"
	"github.com/roach88/tritium/internal/engine"
	"github.com/roach88/tritium/internal/params"
	"github.com/roach88/tritium/internal/store"
	"github.com/roach88/tritium/internal/timeline"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	InputOptions
	EngineOptions
	Database string
	Label    string

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDs store.IDGenerator
}

// RunSummary is the output of the run command.
type RunSummary struct {
	ID               string   `json:"id,omitempty"`
	InputHash        string   `json:"input_hash"`
	Converged        bool     `json:"converged"`
	Iterations       int      `json:"iterations"`
	StartupInventory float64  `json:"startup_inventory"`
	DoublingTime     *float64 `json:"doubling_time"`
	InflectionTime   float64  `json:"inflection_time"`
	ReleaseRate      float64  `json:"release_rate"`
	MaxLoadFactor    float64  `json:"max_load_factor"`
	Bred             float64  `json:"bred"`
	Released         float64  `json:"released"`
	Burnt            float64  `json:"burnt"`
}

func (s RunSummary) String() string {
	var b strings.Builder
	if s.ID != "" {
		fmt.Fprintf(&b, "Run %s\n", s.ID)
	}
	status := "converged"
	if !s.Converged {
		status = "NOT converged (best effort)"
	}
	fmt.Fprintf(&b, "  status:            %s after %d iterations\n", status, s.Iterations)
	fmt.Fprintf(&b, "  start-up inventory: %.4f kg\n", s.StartupInventory)
	if s.DoublingTime != nil {
		fmt.Fprintf(&b, "  doubling time:     %.3f yr\n", *s.DoublingTime)
	} else {
		fmt.Fprintf(&b, "  doubling time:     never\n")
	}
	fmt.Fprintf(&b, "  inflection time:   %.3f yr\n", s.InflectionTime)
	fmt.Fprintf(&b, "  release rate:      %.4g g/yr\n", s.ReleaseRate)
	fmt.Fprintf(&b, "  max load factor:   %.4f\n", s.MaxLoadFactor)
	fmt.Fprintf(&b, "  bred/burnt:        %.4f / %.4f kg\n", s.Bred, s.Burnt)
	fmt.Fprintf(&b, "  released:          %.4g kg\n", s.Released)
	fmt.Fprintf(&b, "  input hash:        %s", s.InputHash)
	return b.String()
}

func newRunSummary(res *engine.Result, hash string) RunSummary {
	return RunSummary{
		InputHash:        hash,
		Converged:        res.Converged,
		Iterations:       res.Iterations,
		StartupInventory: res.StartupInventory,
		DoublingTime:     finite(res.DoublingTime),
		InflectionTime:   res.InflectionTime,
		ReleaseRate:      res.ReleaseRate,
		MaxLoadFactor:    res.MaxLoadFactor,
		Bred:             res.Bred,
		Released:         res.Released,
		Burnt:            res.Burnt,
	}
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the fuel cycle model",
		Long: `Run the fuel cycle model for one timeline and parameter set and
report the converged start-up inventory, doubling time and release rate.

With --db the run is stored for later inspection with "tritium runs".

Exit codes:
  0 - Run converged (or best effort was requested)
  1 - Run failed (no convergence, numeric domain error)
  2 - Command error (invalid configuration, missing files)

Examples:
  tritium run --timeline plant.yaml
  tritium run --timeline plant.yaml --params pessimistic.cue --set TBR=1.08
  tritium run --timeline plant.yaml --db runs.db --label baseline --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModel(opts, cmd)
		},
	}

	opts.InputOptions.register(cmd)
	opts.EngineOptions.register(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label for the stored run")

	return cmd
}

func runModel(opts *RunOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	tl, p, err := opts.InputOptions.load()
	if err != nil {
		return out.Fail("invalid input", err)
	}
	hash, err := canonical.InputHash(p, tl, opts.EngineOptions.settings())
	if err != nil {
		return out.Fail("failed to hash input", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("running fuel cycle", "timeline", opts.Timeline, "samples", tl.Len(), "input_hash", hash)
	engineOpts := append(opts.EngineOptions.options(), engine.WithLogger(logger))
	res, err := engine.New(p, engineOpts...).Run(ctx, tl)
	if err != nil {
		return out.Fail("fuel cycle run failed", err)
	}

	summary := newRunSummary(res, hash)
	if opts.Database != "" {
		id, err := persistRun(ctx, opts, p, tl, res, hash)
		if err != nil {
			_ = out.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to store run", err)
		}
		summary.ID = id
		logger.Info("run stored", "db", opts.Database, "id", id)
	}
	return out.Success(summary)
}

func persistRun(ctx context.Context, opts *RunOptions, p params.Params, tl *timeline.Timeline, res *engine.Result, hash string) (string, error) {
	var storeOpts []store.Option
	if opts.IDs != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
	}
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return "", err
	}
	defer st.Close()

	pj, err := canonical.ParamsJSON(p)
	if err != nil {
		return "", err
	}
	run, err := st.WriteRun(ctx, store.NewRecord(res, hash, opts.Label, pj, opts.Timestep))
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/tritium/internal/canonical"
	"github.com/roach88/tritium/internal/engine"
	"github.com/roach88/tritium/internal/faults"
	"github.com/roach88/tritium/internal/metrics"
	"github.com/roach88/tritium/internal/params"
	"github.com/roach88/tritium/internal/store"
	"github.com/roach88/tritium/internal/timeline"
)

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	InputOptions
	EngineOptions
	Param       string
	Values      []string
	Workers     int
	MetricsFile string
	Database    string

	// IDs allows overriding the run ID generator (for testing).
	IDs store.IDGenerator
}

// SweepRow is the outcome of one sweep point.
type SweepRow struct {
	Value            float64  `json:"value"`
	InputHash        string   `json:"input_hash"`
	ID               string   `json:"id,omitempty"`
	Converged        bool     `json:"converged"`
	Iterations       int      `json:"iterations"`
	StartupInventory float64  `json:"startup_inventory"`
	DoublingTime     *float64 `json:"doubling_time"`
	ReleaseRate      float64  `json:"release_rate"`

	// Cached is true when the point repeats an earlier point's input.
	Cached bool   `json:"cached"`
	Error  string `json:"error,omitempty"`
}

// SweepResult is the output of the sweep command.
type SweepResult struct {
	Param  string     `json:"param"`
	Rows   []SweepRow `json:"rows"`
	Failed int        `json:"failed"`
}

func (r SweepResult) String() string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tstart-up [kg]\tdoubling [yr]\titerations\tstatus\n", r.Param)
	for _, row := range r.Rows {
		status := "converged"
		switch {
		case row.Error != "":
			status = row.Error
		case !row.Converged:
			status = "best effort"
		}
		if row.Cached {
			status += " (cached)"
		}
		doubling := "never"
		if row.DoublingTime != nil {
			doubling = fmt.Sprintf("%.3f", *row.DoublingTime)
		}
		if row.Error != "" {
			fmt.Fprintf(tw, "%g\t-\t-\t-\t%s\n", row.Value, status)
			continue
		}
		fmt.Fprintf(tw, "%g\t%.4f\t%s\t%d\t%s\n", row.Value, row.StartupInventory, doubling, row.Iterations, status)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the model over a range of one parameter",
		Long: `Run the model once per value of one parameter, in parallel.

Points with identical inputs are evaluated once. With --metrics-file the
run metrics are written in the Prometheus text format.

Exit codes:
  0 - Every point ran
  1 - One or more points failed
  2 - Command error

Examples:
  tritium sweep --timeline plant.yaml --param TBR --values 1.02,1.05,1.08
  tritium sweep --timeline plant.yaml --param f_b --values 0.01,0.02 --workers 2 --metrics-file sweep.prom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(opts, cmd)
		},
	}

	opts.InputOptions.register(cmd)
	opts.EngineOptions.register(cmd)
	cmd.Flags().StringVar(&opts.Param, "param", "", "parameter to sweep (required)")
	_ = cmd.MarkFlagRequired("param")
	cmd.Flags().StringSliceVar(&opts.Values, "values", nil, "comma-separated parameter values (required)")
	_ = cmd.MarkFlagRequired("values")
	cmd.Flags().IntVar(&opts.Workers, "workers", runtime.GOMAXPROCS(0), "maximum concurrent runs")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store every successful run in this SQLite database")

	return cmd
}

// sweepPoint is one parameter value with its resolved inputs.
type sweepPoint struct {
	value  float64
	params params.Params
	hash   string
}

// pointResult is what the cache holds per input hash.
type pointResult struct {
	res *engine.Result
	err error
}

func runSweep(opts *SweepOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Workers < 1 {
		return out.Fail("invalid flags", faults.Configf("workers", "must be at least 1, got %d", opts.Workers))
	}
	tl, base, err := opts.InputOptions.load()
	if err != nil {
		return out.Fail("invalid input", err)
	}
	points, err := sweepPoints(base, tl, opts)
	if err != nil {
		return out.Fail("invalid sweep", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	results := cache.New(cache.NoExpiration, 0)
	if err := evaluatePoints(ctx, tl, points, results, opts, m, logger); err != nil {
		return out.Fail("sweep interrupted", err)
	}

	sweep := SweepResult{Param: opts.Param, Rows: make([]SweepRow, len(points))}
	seen := make(map[string]bool, len(points))
	for i, pt := range points {
		v, _ := results.Get(pt.hash)
		pr := v.(pointResult)
		row := SweepRow{Value: pt.value, InputHash: pt.hash, Cached: seen[pt.hash]}
		seen[pt.hash] = true
		if pr.err != nil {
			row.Error = errorLabel(pr.err)
			sweep.Failed++
		} else {
			row.Converged = pr.res.Converged
			row.Iterations = pr.res.Iterations
			row.StartupInventory = pr.res.StartupInventory
			row.DoublingTime = finite(pr.res.DoublingTime)
			row.ReleaseRate = pr.res.ReleaseRate
		}
		sweep.Rows[i] = row
	}

	if opts.Database != "" {
		if err := persistSweep(ctx, opts, points, results, &sweep); err != nil {
			_ = out.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to store sweep", err)
		}
	}
	if opts.MetricsFile != "" {
		if err := m.WriteTextfile(opts.MetricsFile); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
		logger.Info("metrics written", "path", opts.MetricsFile)
	}

	if err := out.Success(sweep); err != nil {
		return err
	}
	if sweep.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d sweep point(s) failed", sweep.Failed))
	}
	return nil
}

func sweepPoints(base params.Params, tl *timeline.Timeline, opts *SweepOptions) ([]sweepPoint, error) {
	if _, err := base.Get(opts.Param); err != nil {
		return nil, err
	}
	if len(opts.Values) == 0 {
		return nil, faults.Configf("values", "at least one value is required")
	}
	settings := opts.EngineOptions.settings()
	points := make([]sweepPoint, 0, len(opts.Values))
	for _, raw := range opts.Values {
		v, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return nil, faults.Configf("values", "not a number: %q", raw)
		}
		p, err := base.With(map[string]any{opts.Param: v})
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		hash, err := canonical.InputHash(p, tl, settings)
		if err != nil {
			return nil, err
		}
		points = append(points, sweepPoint{value: v, params: p, hash: hash})
	}
	return points, nil
}

// evaluatePoints runs every distinct input once, at most opts.Workers at a
// time. Model failures are cached per point; only cancellation aborts the
// sweep.
func evaluatePoints(ctx context.Context, tl *timeline.Timeline, points []sweepPoint, results *cache.Cache, opts *SweepOptions, m *metrics.Metrics, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	scheduled := make(map[string]bool, len(points))
	for _, pt := range points {
		if scheduled[pt.hash] {
			continue
		}
		scheduled[pt.hash] = true

		g.Go(func() error {
			engineOpts := append(opts.EngineOptions.options(),
				engine.WithLogger(logger.With("param", opts.Param, "value", pt.value)),
				engine.WithRecorder(m))
			res, err := engine.New(pt.params, engineOpts...).Run(ctx, tl)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			results.Set(pt.hash, pointResult{res: res, err: err}, cache.NoExpiration)
			return nil
		})
	}
	return g.Wait()
}

// persistSweep stores successful points in value order, once per distinct
// input, and fills in the row IDs.
func persistSweep(ctx context.Context, opts *SweepOptions, points []sweepPoint, results *cache.Cache, sweep *SweepResult) error {
	var storeOpts []store.Option
	if opts.IDs != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
	}
	st, err := store.Open(opts.Database, storeOpts...)
	if err != nil {
		return err
	}
	defer st.Close()

	ids := make(map[string]string, len(points))
	for i, pt := range points {
		if id, ok := ids[pt.hash]; ok {
			sweep.Rows[i].ID = id
			continue
		}
		v, _ := results.Get(pt.hash)
		pr := v.(pointResult)
		if pr.err != nil {
			continue
		}
		pj, err := canonical.ParamsJSON(pt.params)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("%s=%g", opts.Param, pt.value)
		run, err := st.WriteRun(ctx, store.NewRecord(pr.res, pt.hash, label, pj, opts.Timestep))
		if err != nil {
			return err
		}
		ids[pt.hash] = run.ID
		sweep.Rows[i].ID = run.ID
	}
	return nil
}

// errorLabel names the fault class of a failed point.
func errorLabel(err error) string {
	switch {
	case faults.IsConfiguration(err):
		return "configuration error"
	case faults.IsNumericDomain(err):
		return "numeric domain error"
	case faults.IsConvergence(err):
		return "not converged"
	default:
		return err.Error()
	}
}

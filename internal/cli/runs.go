package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/tritium/internal/store"
)

// RunsOptions holds flags for the runs commands.
type RunsOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// RunList is the output of runs list.
type RunList struct {
	Runs []RunView `json:"runs"`
}

func (l RunList) String() string {
	if len(l.Runs) == 0 {
		return "No runs found."
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tLABEL\tSTART-UP [kg]\tDOUBLING [yr]\tCONVERGED")
	for _, r := range l.Runs {
		doubling := "never"
		if r.DoublingTime != nil {
			doubling = fmt.Sprintf("%.3f", *r.DoublingTime)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%s\t%t\n", r.Seq, r.ID, r.Label, r.StartupInventory, doubling, r.Converged)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// RunDetail is the output of runs show.
type RunDetail struct {
	Run        RunView          `json:"run"`
	Iterations []IterationView  `json:"iterations"`
	Maxima     []store.Extremum `json:"maxima"`
	Minima     []store.Extremum `json:"minima"`
}

func (d RunDetail) String() string {
	var b strings.Builder
	r := d.Run
	fmt.Fprintf(&b, "Run %s (seq %d)\n", r.ID, r.Seq)
	if r.Label != "" {
		fmt.Fprintf(&b, "  label:             %s\n", r.Label)
	}
	fmt.Fprintf(&b, "  input hash:        %s\n", r.InputHash)
	fmt.Fprintf(&b, "  start-up inventory: %.4f kg\n", r.StartupInventory)
	if r.DoublingTime != nil {
		fmt.Fprintf(&b, "  doubling time:     %.3f yr\n", *r.DoublingTime)
	} else {
		fmt.Fprintf(&b, "  doubling time:     never\n")
	}
	fmt.Fprintf(&b, "  samples:           %d coarse, %d fine (%g s)\n", r.CoarseSamples, r.FineSamples, r.Timestep)
	fmt.Fprintf(&b, "  envelope bins:     %d\n", len(d.Maxima))
	fmt.Fprintf(&b, "  iterations:")
	for _, it := range d.Iterations {
		residual := "inf"
		if it.Residual != nil {
			residual = fmt.Sprintf("%.3g", *it.Residual)
		}
		fmt.Fprintf(&b, "\n    %3d  seed %.6f kg  residual %s", it.N, it.Seed, residual)
	}
	return b.String()
}

// NewRunsCommand creates the runs command group.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored runs",
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored runs in the order they were written",
		Example: `  tritium runs list --db runs.db
  tritium runs list --db runs.db --limit 10 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(opts, cmd)
		},
	}
	list.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 for all)")

	show := &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one stored run with its convergence history",
		Example:       `  tritium runs show --db runs.db 0192f3a4-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func openStore(opts *RunsOptions) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func runRunsList(opts *RunsOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	list := RunList{Runs: make([]RunView, len(runs))}
	for i, r := range runs {
		list.Runs[i] = newRunView(r)
	}
	return opts.formatter(cmd).Success(list)
}

func runRunsShow(opts *RunsOptions, id string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	run, err := st.ReadRun(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		_ = out.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "run not found", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	its, err := st.ReadIterations(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read iterations", err)
	}
	maxima, err := st.ReadExtrema(ctx, id, store.KindMax)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read maxima", err)
	}
	minima, err := st.ReadExtrema(ctx, id, store.KindMin)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read minima", err)
	}

	detail := RunDetail{
		Run:        newRunView(run),
		Iterations: make([]IterationView, len(its)),
		Maxima:     maxima,
		Minima:     minima,
	}
	for i, it := range its {
		detail.Iterations[i] = IterationView{N: it.N, Seed: it.Seed, Residual: finite(it.Residual)}
	}
	return out.Success(detail)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tritium/internal/canonical"
	"github.com/roach88/tritium/internal/engine"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	InputOptions
	EngineOptions
}

// ValidateResult is the output of a successful validation.
type ValidateResult struct {
	Valid     bool    `json:"valid"`
	Samples   int     `json:"samples"`
	Span      float64 `json:"span"`
	InputHash string  `json:"input_hash"`
}

func (r ValidateResult) String() string {
	return fmt.Sprintf("✓ Configuration valid: %d timeline samples over %.3f yr (input %s)", r.Samples, r.Span, r.InputHash[:12])
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a timeline and parameter set without running",
		Long: `Check a timeline, parameter set and engine settings for
configuration and numeric domain errors without simulating.

Examples:
  tritium validate --timeline plant.yaml
  tritium validate --timeline plant.yaml --params pessimistic.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	opts.InputOptions.register(cmd)
	opts.EngineOptions.register(cmd)
	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	tl, p, err := opts.InputOptions.load()
	if err != nil {
		return out.Fail("validation failed", err)
	}
	if err := engine.New(p, opts.EngineOptions.options()...).Validate(tl); err != nil {
		return out.Fail("validation failed", err)
	}
	hash, err := canonical.InputHash(p, tl, opts.EngineOptions.settings())
	if err != nil {
		return out.Fail("failed to hash input", err)
	}
	return out.Success(ValidateResult{
		Valid:     true,
		Samples:   tl.Len(),
		Span:      tl.Time[tl.Len()-1] - tl.Time[0],
		InputHash: hash,
	})
}

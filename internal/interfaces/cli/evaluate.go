package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/molsift/molsift/internal/application/pipeline"
	"github.com/molsift/molsift/internal/domain/descriptor"
	"github.com/molsift/molsift/internal/domain/rules"
	"github.com/molsift/molsift/internal/infrastructure/monitoring/logging"
	"github.com/molsift/molsift/internal/infrastructure/storage/sqlite"
)

// EvaluateOptions holds flags for the evaluate subcommand.
type EvaluateOptions struct {
	OutputPath string
	StorePath  string
	Rules      []string
}

// NewEvaluateCmd builds `molsift evaluate`: batch-evaluate a SMILES file
// into a drug-likeness text report.
func NewEvaluateCmd() *cobra.Command {
	opts := &EvaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate [input-file]",
		Short: "Evaluate compounds against drug-likeness rules",
		Long:  "Reads one compound per line (\"notation [name]\") from the input file or\nstandard input, computes molecular descriptors, evaluates every configured\nrule set, and streams one report block per compound.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.OutputPath, "output", "o", "", "report file (default: standard output, truncated before writing)")
	f.StringVar(&opts.StorePath, "store", "", "SQLite database to persist run results")
	f.StringSliceVar(&opts.Rules, "rules", nil, "rule sets to evaluate (default: all five)")

	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string, opts *EvaluateOptions) error {
	cliCtx := GetCLIContext(cmd)
	cfg := cliCtx.Config
	logger := cliCtx.Logger

	in, closeIn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cmd, opts.OutputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	ruleNames := opts.Rules
	if len(ruleNames) == 0 {
		ruleNames = cfg.Pipeline.Rules
	}
	defs, err := rules.Subset(rules.DefaultDefinitions(), ruleNames)
	if err != nil {
		return err
	}
	engine, err := rules.NewEngine(defs)
	if err != nil {
		return err
	}

	runnerOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithNamePrefix(cfg.Pipeline.NamePrefix),
	}

	storePath := opts.StorePath
	if storePath == "" && cfg.Store.Enabled {
		storePath = cfg.Store.Path
	}
	var store *sqlite.Store
	if storePath != "" {
		store, err = sqlite.Open(storePath)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.BeginRun(cmd.Context()); err != nil {
			return err
		}
		runnerOpts = append(runnerOpts, pipeline.WithRecorder(store))
	}

	runner := pipeline.NewRunner(descriptor.NewSMILESProvider(), engine, runnerOpts...)
	sum, err := runner.Run(cmd.Context(), in, out)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.FinishRun(cmd.Context(), sum.Processed, sum.Skipped); err != nil {
			logger.Warn("finalizing result store failed", logging.Err(err))
		}
	}

	if err := closeOut(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d compounds, skipped %d\n", sum.Processed, sum.Skipped)
	return nil
}

// openInput returns the input stream: the named file, or the command's
// standard input when no argument is given.
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("opening input file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// openOutput returns the report sink: the named file (truncated first), or
// the command's standard output.  The closer surfaces flush-on-close
// failures and must be checked on the success path.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

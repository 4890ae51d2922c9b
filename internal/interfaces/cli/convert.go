package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/molsift/molsift/internal/application/convert"
)

// NewConvertCmd builds `molsift convert`: reformat a text report into CSV.
func NewConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <report-file> <csv-file>",
		Short: "Convert a drug-likeness report to CSV",
		Long:  "Reads a report produced by `molsift evaluate` and writes one CSV row per\ncompound: descriptor columns plus a pass/fail column per rule set.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening report file: %w", err)
			}
			defer in.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("creating csv file: %w", err)
			}
			defer out.Close()

			if err := convert.Convert(in, out); err != nil {
				return err
			}
			return out.Close()
		},
	}
}

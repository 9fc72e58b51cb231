package main

import (
	"os"

	"github.com/Vincent-lau/schedbench/internal/report"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <detail.csv>",
		Short: "Recompute the summary CSV from a detail CSV, skipping malformed lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "opening detail csv")
			}
			defer f.Close()

			rows, err := report.SummarizeDetail(f)
			if err != nil {
				return err
			}
			return report.WriteSummary(os.Stdout, rows)
		},
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Vincent-lau/schedbench/internal/store"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Stored experiment runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show table of stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.List()
			if err != nil {
				return err
			}

			printTableOfRuns(os.Stdout, runs)
			return nil
		},
	}
}

func printTableOfRuns(writer io.Writer, runs []store.Run) {
	table := tablewriter.NewWriter(writer)

	table.SetHeader([]string{"ID", "Created", "Seed", "Trials", "Scenarios", "Failures"})

	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.Created.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d", r.Trials),
			fmt.Sprintf("%d", len(r.Scenarios)),
			fmt.Sprintf("%d", len(r.Failures)),
		})
	}

	table.Render()
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored run as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.Get(args[0])
			if err != nil {
				return err
			}

			return yaml.NewEncoder(os.Stdout).Encode(run)
		},
	}
}

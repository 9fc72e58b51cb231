package main

import (
	"os"

	"github.com/Vincent-lau/schedbench/internal/policy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"cfg"},
		Short:   "Configuration inspection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return yaml.NewEncoder(os.Stdout).Encode(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "policies",
		Short: "List the available scheduling policies",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range policy.List() {
				cmd.Println(name)
			}
		},
	})

	return cmd
}

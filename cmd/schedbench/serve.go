package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Vincent-lau/schedbench/internal/server"
	"github.com/Vincent-lau/schedbench/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run API, prometheus metrics and the gRPC health service",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, st).Serve(ctx)
		},
	}

	cmd.Flags().String("http-port", "", "HTTP API port")
	cmd.Flags().String("liveness-port", "", "gRPC health port")
	viper.BindPFlags(cmd.Flags())

	return cmd
}

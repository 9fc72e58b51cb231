package main

import (
	"time"

	"github.com/Vincent-lau/schedbench/internal/util"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func newStatusCmd() *cobra.Command {
	var (
		addr     string
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Ask a running server whether it is idle",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = "localhost:" + cfg.Server.LivenessPort
			}

			conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return errors.Wrapf(err, "dialing %s", addr)
			}
			defer conn.Close()

			client := grpc_health_v1.NewHealthClient(conn)
			resp, err := util.MakeRPC(cmd.Context(), &grpc_health_v1.HealthCheckRequest{}, client.Check, attempts, 500*time.Millisecond)
			if err != nil {
				return err
			}

			if resp.Status == grpc_health_v1.HealthCheckResponse_SERVING {
				color.New(color.FgGreen).Printf("%s: idle\n", addr)
			} else {
				color.New(color.FgYellow).Printf("%s: experiment running\n", addr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "health service address, defaults to localhost and the liveness port")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "number of attempts before giving up")

	return cmd
}

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Vincent-lau/schedbench/internal/harness"
	"github.com/Vincent-lau/schedbench/internal/metrics"
	"github.com/Vincent-lau/schedbench/internal/report"
	"github.com/Vincent-lau/schedbench/internal/store"
	"github.com/Vincent-lau/schedbench/internal/util"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every configured scenario and write the reports",
		Example: `
  schedbench run
  schedbench run --policies mows,round-robin,random --trials 5 --task-counts 1000,2000
  schedbench run --dataset trace --trace-file datasets/SDSC/SDSC7395.txt --label SDSC`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runExperiment(ctx)
		},
	}

	f := cmd.Flags()
	f.Uint64("seed", 0, "seed of the shared random source")
	f.Int("trials", 0, "trials per scenario")
	f.StringSlice("policies", nil, "policies to compare")
	f.IntSlice("task-counts", nil, "workload sizes")
	f.Bool("parallel", false, "run trials concurrently with per-trial seeds (changes results)")
	f.Int("workers", 0, "parallel workers, 0 for one per processor")
	f.String("cursor-reset", "", "round-robin cursor reset, batch or trial")
	f.String("dataset", "", "workload source: synthetic, dataset or trace")
	f.String("trace-file", "", "trace file for the trace dataset")
	f.String("label", "", "suffix added to scenario names")
	f.String("out", "", "output directory")
	f.String("cpuprofile", "", "write a cpu profile to this file")
	f.String("trace", "", "write a runtime trace to this file")
	f.String("metrics-addr", "", "serve prometheus metrics on this address while running")
	viper.BindPFlags(f)

	return cmd
}

func runExperiment(ctx context.Context) error {
	stopProfile, err := util.StartCPUProfile(cfg.Output.CPUProfile)
	if err != nil {
		return err
	}
	defer stopProfile()

	stopTrace, err := util.StartTrace(cfg.Output.Trace)
	if err != nil {
		return err
	}
	defer stopTrace()

	if addr := viper.GetString("metrics-addr"); addr != "" {
		go metrics.Start(addr)
	}

	h, err := harness.New(cfg)
	if err != nil {
		return err
	}
	rep, err := h.Run(ctx)
	if err != nil {
		return err
	}

	run := store.NewRun(rep, cfg)
	run.OutputDir = cfg.Output.Dir
	m, err := report.Publish(cfg.Output.Dir, cfg, rep, run.ID)
	if err != nil {
		return err
	}

	report.PrintTable(os.Stdout, rep)

	if st, err := store.Open(cfg.Store.Path); err != nil {
		log.WithFields(log.Fields{"error": err}).Warn("run not stored")
	} else {
		defer st.Close()
		if err := st.Put(run); err != nil {
			log.WithFields(log.Fields{"error": err}).Warn("run not stored")
		}
	}

	color.New(color.FgGreen).Printf("run %s\n", run.ID)
	color.New(color.FgGreen).Printf("  detail:  %s\n", m.Detail)
	color.New(color.FgGreen).Printf("  summary: %s\n", m.Summary)
	if n := len(rep.Failures()); n > 0 {
		color.New(color.FgYellow).Printf("  %d trials failed, see %s\n", n, report.ManifestName)
	}
	return nil
}

package main

import (
	"strings"

	config "github.com/Vincent-lau/schedbench/internal/configs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// effective configuration, loaded before any subcommand runs
var cfg *config.Config

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedbench",
		Short: "Compare task to VM scheduling policies over repeated simulated trials",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = loadConfig(); err != nil {
				return err
			}
			return config.SetupLogging(cfg.Mode)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "YAML configuration file")
	cmd.PersistentFlags().String("mode", "", "log mode, DEV or PROD")
	cmd.PersistentFlags().String("store", "", "run store file")
	viper.BindPFlags(cmd.PersistentFlags())

	viper.SetEnvPrefix("SCHEDBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	cmd.AddCommand(
		newRunCmd(),
		newServeCmd(),
		newRunsCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newSummarizeCmd(),
	)
	return cmd
}

// loadConfig reads the config file if one is given and lays flags and
// SCHEDBENCH_ environment variables over it.
func loadConfig() (*config.Config, error) {
	c := config.Default()
	if path := viper.GetString("config"); path != "" {
		var err error
		if c, err = config.Load(path); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"file": path}).Debug("using config file")
	}

	if viper.IsSet("mode") {
		c.Mode = strings.ToUpper(viper.GetString("mode"))
	}
	if viper.IsSet("store") {
		c.Store.Path = viper.GetString("store")
	}

	e := &c.Experiment
	if viper.IsSet("seed") {
		e.Seed = viper.GetUint64("seed")
	}
	if viper.IsSet("trials") {
		e.Trials = viper.GetInt("trials")
	}
	if viper.IsSet("policies") {
		e.Policies = viper.GetStringSlice("policies")
	}
	if viper.IsSet("task-counts") {
		e.TaskCounts = viper.GetIntSlice("task-counts")
	}
	if viper.IsSet("parallel") {
		e.Parallel = viper.GetBool("parallel")
	}
	if viper.IsSet("workers") {
		e.Workers = viper.GetInt("workers")
	}
	if viper.IsSet("cursor-reset") {
		e.CursorReset = viper.GetString("cursor-reset")
	}
	if viper.IsSet("dataset") {
		c.Dataset.Mode = viper.GetString("dataset")
	}
	if viper.IsSet("trace-file") {
		c.Dataset.TracePath = viper.GetString("trace-file")
	}
	if viper.IsSet("label") {
		c.Dataset.Label = viper.GetString("label")
	}
	if viper.IsSet("out") {
		c.Output.Dir = viper.GetString("out")
	}
	if viper.IsSet("cpuprofile") {
		c.Output.CPUProfile = viper.GetString("cpuprofile")
	}
	if viper.IsSet("trace") {
		c.Output.Trace = viper.GetString("trace")
	}
	if viper.IsSet("http-port") {
		c.Server.HTTPPort = viper.GetString("http-port")
	}
	if viper.IsSet("liveness-port") {
		c.Server.LivenessPort = viper.GetString("liveness-port")
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "effective config")
	}
	return c, nil
}

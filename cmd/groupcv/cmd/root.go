package cmd

import (
	"fmt"

	"github.com/hupe1980/groupcv"
	"github.com/hupe1980/groupcv/prom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v        *viper.Viper
	cfg      Config
	logger   *groupcv.Logger
	metrics  groupcv.MetricsCollector
	registry *prometheus.Registry
}

// Execute runs the groupcv command line.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}

	root := &cobra.Command{
		Use:   "groupcv",
		Short: "Leave-P-groups-out cross-validation splits",
		Long: `groupcv holds out every combination of P distinct groups (for example
acquisition sites) as the test set of one fold. Folds whose test targets
carry a single class are rejected unless --robust=false.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (YAML, TOML or JSON)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(newSplitCmd(a))
	root.AddCommand(newCountCmd(a))
	root.AddCommand(newPlanCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.v, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.metrics = groupcv.NoopMetricsCollector{}
	if cfg.MetricsFile != "" {
		a.registry = prometheus.NewRegistry()
		c := prom.NewCollector("groupcv")
		if err := c.Register(a.registry); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		a.metrics = c
	}

	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// newSplitter builds a splitter from the resolved flags.
func (a *app) newSplitter() (*groupcv.Splitter, error) {
	mode, err := groupcv.ParseShuffleMode(a.cfg.Mode)
	if err != nil {
		return nil, err
	}

	opts := []groupcv.Option{
		groupcv.WithColumn(a.cfg.Column),
		groupcv.WithRobust(a.cfg.Robust),
		groupcv.WithShuffle(a.cfg.Shuffle),
		groupcv.WithShuffleMode(mode),
		groupcv.WithLogger(a.logger),
		groupcv.WithMetricsCollector(a.metrics),
	}
	if a.cfg.SeedSet {
		opts = append(opts, groupcv.WithSeed(a.cfg.Seed))
	}

	return groupcv.New(a.cfg.NGroups, opts...)
}

package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/zeusync/behavior/internal/core/behavior"
	"github.com/zeusync/behavior/internal/core/observability/log"
	"github.com/zeusync/behavior/internal/core/runner"
	"github.com/zeusync/behavior/internal/demo/door"
	"github.com/zeusync/behavior/internal/injector"
)

var rootCmd = &cobra.Command{
	Use:   "bt",
	Short: "bt drives behavior trees for the door demo",
	Long: `bt loads a behavior tree from YAML or JSON, ticks it against the door
environment and saves or inspects paused runs.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
}

func newLogger(cmd *cobra.Command) (*log.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	level := log.ParseLevel(levelName)
	switch format {
	case "console":
		return log.NewConsole(level), nil
	case "json":
		return log.New(level), nil
	default:
		return nil, errors.Newf("unknown log format %q", format)
	}
}

func newDoor(cmd *cobra.Command, config runner.Config) (*injector.Door, *prometheus.Registry, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	reg := prometheus.NewRegistry()
	return injector.InitializeDoor(config, logger, reg), reg, nil
}

// loadTree builds the tree described at path, or the built-in door sequence
// when path is empty.
func loadTree(d *injector.Door, path string) (*behavior.Tree[door.Environment], error) {
	if path == "" {
		return door.NewTree(d.TreeOptions()...), nil
	}
	cfg, err := behavior.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return behavior.Build(cfg, d.Registry, d.TreeOptions()...)
}

// Package main is the entry point for the storecast notifier.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storecast.io/notifier/internal/config"
	"storecast.io/notifier/internal/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "notifier",
		Short:         "storecast notification engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config.yaml, ./config/config.yaml)")

	load := func() (*config.Config, error) {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(
		serveCommand(load),
		migrateCommand(load),
		sweepCommand(load),
		tokenCommand(load),
	)
	return root
}

// configLoader loads configuration and initializes the global logger.
type configLoader func() (*config.Config, error)

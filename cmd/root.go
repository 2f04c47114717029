// Package cmd holds the battsim command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/battsim/config"
	"github.com/kilianp07/battsim/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "battsim",
	Short:         "Battery bank simulation with manual PV dispatch",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration and applies its logging section.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

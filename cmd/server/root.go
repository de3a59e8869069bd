package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/studyplan-api/internal/config"
	"github.com/phrazzld/studyplan-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	envFile    string
}

// newRootCmd builds the command tree. Commands are constructed per call so
// tests can execute them in isolation.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "studyplan",
		Short:        "Spaced repetition and study planning API",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newImportCardsCmd(opts),
		newTokenCmd(opts),
	)

	return root
}

// loadConfig loads configuration and installs the structured logger.
func (o *rootOptions) loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWithOptions(config.Options{
		EnvFile:    o.envFile,
		ConfigFile: o.configFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	return cfg, log, nil
}

// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"os"

	"fjacquet/budget-dashboard/internal/config"
	"fjacquet/budget-dashboard/internal/container"
	"fjacquet/budget-dashboard/internal/validation"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by every command
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	Storage    string
	DataDir    string
	Output     string
}

var (
	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	// Options are passed to the container; tests use them to swap dependencies.
	Options []container.Option

	appContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget",
		Short: "A personal budget tracker for categories, income and bills.",
		Long: `budget keeps three collections (categories, income and bills) in local storage.
CSV files or published spreadsheet URLs can be imported, rows can be listed,
filtered, paginated and edited, and a dashboard summarizes totals, spend per
category and per-month series.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return teardown()
		},
	}
)

// Init initializes the root command flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.budget-dashboard, .budget-dashboard or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Storage, "storage", "", "Storage backend override (file, sqlite, memory)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.DataDir, "data-dir", "", "Data directory for the file and sqlite backends")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
}

func setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	envFile, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.Storage != "" {
		cfg.Storage.Backend = SharedFlags.Storage
	}
	if SharedFlags.DataDir != "" {
		cfg.Storage.Directory = SharedFlags.DataDir
		cfg.Storage.SQLitePath = ""
	}

	c, err := container.NewContainer(ctx, cfg, Options...)
	if err != nil {
		return err
	}
	appContainer = c

	if envFile != "" {
		if info, err := os.Stat(envFile); err == nil {
			if err := validation.IsValidFilePermissions(info.Mode().Perm()); err != nil {
				c.GetLogger().WithError(err).Warn("Environment file may expose API keys")
			}
		}
	}
	return nil
}

func teardown() error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}

// GetContainer returns the container built for the running command.
func GetContainer() *container.Container {
	return appContainer
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/groupstats/internal/app"
	"github.com/vovakirdan/groupstats/internal/config"
	"github.com/vovakirdan/groupstats/internal/log"
)

var (
	configPath string
	logLevel   string

	cfg         config.Config
	logger      *zerolog.Logger
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:           "groupstats",
	Short:         "Engagement statistics for GroupMe groups",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup()
	},
}

// setup resolves configuration, builds the logger and the application shared by all commands.
func setup() error {
	logger = log.New(levelOr("info"))

	loaded, path, err := config.Load(logger, configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = log.New(levelOr(cfg.LogLevel))
	logger.Debug().Str("config", path).Msg("configuration loaded")

	if err := cfg.Validate(); err != nil {
		return err
	}

	application = app.New(&cfg, logger)
	return nil
}

func levelOr(fallback string) string {
	if logLevel != "" {
		return logLevel
	}
	return fallback
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// Execute runs the root command with ctx and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sarchlab/kitchen/config"
)

type rootOptions struct {
	logLevel string
	envFile  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "kitchen",
		Short: "Kitchen runs cooking levels in virtual time.",
		Long: "Kitchen runs cooking levels in virtual time. It puts orders out " +
			"as a level file describes, lets a bot chef serve them, and reports " +
			"the score.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadDotEnv(opts.envFile)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info",
		"log level: debug, info, warn, or error")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env",
		"file of environment variables to load if it exists")

	cmd.AddCommand(newRunCmd(opts), newValidateCmd())

	return cmd
}

func (o *rootOptions) newLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = level > zapcore.DebugLevel

	return cfg.Build()
}

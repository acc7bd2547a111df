// Package cli defines the command-line interface of the reactive tool.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactive/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	EnvFiles []string
	LogLevel string
}

// Execute builds the root command, runs it with args and returns any error.
func Execute(args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	return cmd.Execute()
}

// NewRootCommand constructs the root command with its global flags and subcommands.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stderr == nil {
		stderr = os.Stderr
	}

	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "reactive",
		Short:         "Replay scenarios against the reactive object engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(opts.LogLevel)
			logger := logging.NewLogger(stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, "Env files to load before reading REACTIVE_* variables")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newRunCommand(opts))

	return cmd
}

type loggerKey struct{}

// LoggerFromContext extracts the command logger or falls back to a default one.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return logging.NewLogger(os.Stderr, slog.LevelInfo)
}

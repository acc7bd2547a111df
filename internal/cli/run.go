package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactive"
	"github.com/AnatoleLucet/reactive/internal/config"
	"github.com/AnatoleLucet/reactive/internal/logging"
	"github.com/AnatoleLucet/reactive/internal/script"
)

func newRunCommand(opts *Options) *cobra.Command {
	var (
		maxDepth    int
		keepStale   bool
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a scenario and print every effect execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			cfg, err := config.Load(opts.EnvFiles...)
			if err != nil {
				return err
			}

			s, err := script.Load(args[0])
			if err != nil {
				return err
			}

			if cfg, err = config.Merge(cfg, s.Options); err != nil {
				return fmt.Errorf("script %s: %w", args[0], err)
			}

			// flags set explicitly win over the environment and the script
			if cmd.Flags().Changed("max-depth") {
				cfg.MaxDepth = maxDepth
			}
			if cmd.Flags().Changed("keep-stale") {
				cfg.KeepStale = keepStale
			}

			logger.Debug("running script", "path", args[0], "max_depth", cfg.MaxDepth, "keep_stale", cfg.KeepStale)

			runtimeLogger := logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))

			reg := prometheus.NewRegistry()
			m, err := reactive.NewMetrics(reg)
			if err != nil {
				return err
			}

			err = s.Run(cmd.OutOrStdout(), logger,
				reactive.WithLogger(runtimeLogger),
				reactive.WithMaxDepth(cfg.MaxDepth),
				reactive.WithKeepStale(cfg.KeepStale),
				reactive.WithMetrics(m),
			)
			if err != nil {
				return err
			}

			if showMetrics {
				return writeMetrics(cmd.ErrOrStderr(), reg)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum effect nesting depth, 0 for unlimited")
	cmd.Flags().BoolVar(&keepStale, "keep-stale", false, "Keep subscriptions from previous effect runs")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print runtime counters to stderr after the run")

	return cmd
}

// writeMetrics prints one "name value" line per gathered series.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value := metric.GetCounter().GetValue()
			if g := metric.GetGauge(); g != nil {
				value = g.GetValue()
			}

			if _, err := fmt.Fprintf(w, "%s %g\n", family.GetName(), value); err != nil {
				return err
			}
		}
	}

	return nil
}

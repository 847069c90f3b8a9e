package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/BrandonKowalski/curtain/pkg/curtain"
	"github.com/BrandonKowalski/curtain/pkg/curtain/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

// runParams bundles what runScenario needs so it can be tested without Cobra.
type runParams struct {
	stdout    io.Writer
	path      string
	timeout   time.Duration
	metrics   bool   // Print Prometheus metrics after the summary
	namespace string // Metrics namespace
}

func newRunCommand(cfg *curtain.Config) *cobra.Command {
	var (
		timeout     time.Duration
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "run <scenario.toml>",
		Short: "Replay a scenario and print the lifecycle journal",
		Example: `  # Replay a stack scenario
  curtain run testdata/stack_pop_entry.toml

  # Include the metrics the controller recorded
  curtain run --metrics testdata/queue_fifo.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd.Context(), runParams{
				stdout:    cmd.OutOrStdout(),
				path:      args[0],
				timeout:   timeout,
				metrics:   showMetrics,
				namespace: cfg.MetricsNamespace,
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "how long any single wait may take")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print controller metrics after the summary")
	return cmd
}

func runScenario(ctx context.Context, p runParams) error {
	if ctx == nil {
		ctx = context.Background()
	}

	sc, err := LoadScenario(p.path)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(p.namespace, reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	if err := newRunner(sc, p.timeout, m).Run(ctx, p.stdout); err != nil {
		return err
	}

	if !p.metrics {
		return nil
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	fmt.Fprintln(p.stdout, "---")
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(p.stdout, mf); err != nil {
			return err
		}
	}
	return nil
}

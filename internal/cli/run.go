package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"portcall/internal/platform/httpserver"
	"portcall/internal/platform/metrics"
	"portcall/internal/portcall"
)

// RunCmd simulates a batch of generated vessels and prints a summary.
func RunCmd() *cobra.Command {
	var (
		authoritiesURL string
		metricsAddr    string
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate vessels arriving at the port",
		Long: `Generate vessels, decide their inspections with the three authorities,
dock them on the available berths and print what happened to each one.

Every flag falls back to its PORTCALL_* environment variable.`,
		Args: cobra.NoArgs,
	}
	flags := addPortFlags(cmd)
	cmd.Flags().StringVar(&authoritiesURL, "authorities-url", "", "base URL of a remote inspection service")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every vessel")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.config()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := metrics.NewRegistry()
		p, d, err := newPort(ctx, cfg, reg, authoritiesURL)
		if err != nil {
			return err
		}
		defer d.close()

		g, gctx := errgroup.WithContext(ctx)
		metricsCtx, stopMetrics := context.WithCancel(gctx)
		if metricsAddr != "" {
			g.Go(func() error {
				return httpserver.Run(metricsCtx, httpserver.New(metricsAddr, metrics.Handler(reg)), d.logger)
			})
		}

		var report portcall.Report
		g.Go(func() error {
			defer stopMetrics()
			var err error
			report, err = portcall.Simulate(gctx, p)
			return err
		})
		if err := g.Wait(); err != nil {
			return fmt.Errorf("simulation: %w", err)
		}

		printReport(cmd.OutOrStdout(), report, verbose)
		printEventCounts(cmd.OutOrStdout(), d.memory.CountByType(ctx))
		if d.guarded != nil && d.guarded.Skipped() > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d events were not shipped to kafka\n", d.guarded.Skipped())
		}
		if dropped := p.Events.Dropped(); dropped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d events were dropped\n", dropped)
		}
		return nil
	}
	return cmd
}

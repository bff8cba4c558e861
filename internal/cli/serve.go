package cli

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	dockhandler "portcall/internal/dock/handler"
	inspectionhandler "portcall/internal/inspection/handler"
	"portcall/internal/platform/httpserver"
	"portcall/internal/platform/metrics"
	"portcall/pkg/platform/middleware/requestid"
	"portcall/pkg/platform/middleware/requesttime"
)

// ServeCmd exposes the authorities and the dock over HTTP.
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspection authorities and the dock over HTTP",
		Long: `Start an HTTP server with:

  POST /authorities/{sri|senae|supercia}/evaluate
  POST /dock/requests
  POST /dock/admissions
  GET  /dock/berths
  GET  /metrics

Slot workers and the damage injector run for as long as the server does.`,
		Args: cobra.NoArgs,
	}
	flags := addPortFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", flags.base.HTTPAddr, "listen address")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.config()
		if err != nil {
			return err
		}
		cfg.HTTPAddr = addr

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := metrics.NewRegistry()
		p, d, err := newPort(ctx, cfg, reg, "")
		if err != nil {
			return err
		}
		defer d.close()

		r := chi.NewRouter()
		r.Use(requestid.Middleware)
		r.Use(requesttime.Middleware)
		r.Use(middleware.Recoverer)
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
		inspectionhandler.New(p.Authorities, p.Tracker, cfg.HomeCountry, d.logger, p.InspectionMetrics).Register(r)
		dockhandler.New(p.Scheduler, p.Damage, cfg.HomeCountry, d.logger).Register(r)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return p.RunBackground(gctx)
		})
		g.Go(func() error {
			return httpserver.Run(gctx, httpserver.New(cfg.HTTPAddr, r), d.logger)
		})
		return g.Wait()
	}
	return cmd
}

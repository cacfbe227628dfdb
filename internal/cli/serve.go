package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"caguard/internal/guardian/handler"
	"caguard/internal/platform/config"
	"caguard/internal/platform/httpserver"
	"caguard/internal/platform/logger"
	platformmetrics "caguard/internal/platform/metrics"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the approval verification API",
	Long: "Loads the config file (plus CAGUARD_* overrides), wires the replay store,\n" +
		"verifier and issuer registries and the audit sink, then serves the v1 API\n" +
		"together with /healthz and /metrics until interrupted.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := build(ctx, cfg, log, reg)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	defer a.Close()

	router := handler.NewRouter(
		handler.New(a.tally, log),
		platformmetrics.New(reg),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	)
	srv := httpserver.New(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting caguard", "addr", cfg.Server.Addr, "replay_store", cfg.Approval.ReplayStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

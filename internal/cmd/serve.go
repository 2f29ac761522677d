package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/miradorstack/mirador-pathmine/internal/api"
	"github.com/miradorstack/mirador-pathmine/internal/ingest"
	"github.com/miradorstack/mirador-pathmine/internal/metrics"
	"github.com/miradorstack/mirador-pathmine/internal/services"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve cohort analysis over gRPC",
		Long: `Start the pathmine.v1.CohortAnalysis gRPC service together with a
Prometheus /metrics endpoint. Stops gracefully on SIGINT or SIGTERM.

Examples:
  pathmine serve --config pathmine.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	cfg, logger := a.cfg, a.logger
	logger.Info("starting mirador-pathmine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	labeler, err := ingest.NewLabeler(cfg.Labels.Path, logger)
	if err != nil {
		return err
	}
	service := services.NewAnalysisService(logger, *cfg, labeler)

	server, err := api.NewServer(cfg.Server, service)
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(parent)
	defer stop()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("gRPC server exited", slog.Any("error", err))
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.GracefulTimeout())
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	logger.Info("mirador-pathmine stopped")
	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/citywatch/crime-prediction-dashboard/internal/adapter/httpapi"
	"github.com/citywatch/crime-prediction-dashboard/internal/adapter/predictor"
	"github.com/citywatch/crime-prediction-dashboard/internal/config"
	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
	"github.com/citywatch/crime-prediction-dashboard/internal/observability"
	"github.com/citywatch/crime-prediction-dashboard/internal/orchestrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := predictor.NewClient(cfg.PredictorBaseURL, cfg.PredictorTimeout, metrics, logger)

	// Response cache is opt-in: identical queries skip the upstream call when
	// enabled, which changes observable behavior and so defaults to off.
	var fetcher orchestrator.Fetcher = client
	if cfg.CacheEnabled {
		fetcher = predictor.NewCachedClient(client, cfg.CacheSize, metrics)
		logger.Info("prediction response cache enabled", "cache_size", cfg.CacheSize)
	}

	dashboard := orchestrator.New(fetcher,
		domain.Geo{Lat: cfg.MapCenterLat, Lon: cfg.MapCenterLon}, cfg.MapZoom,
		logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, dashboard, cfg.CORSOrigins, cfg.DefaultTopN, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("dashboard service started",
		"predictor_base_url", cfg.PredictorBaseURL,
		"default_top_n", cfg.DefaultTopN,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/exoplanet-habitability/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/exoplanet-habitability/internal/adapter/kafka"
	"github.com/couchcryptid/exoplanet-habitability/internal/adapter/nasa"
	"github.com/couchcryptid/exoplanet-habitability/internal/adapter/ollama"
	"github.com/couchcryptid/exoplanet-habitability/internal/adapter/postgres"
	"github.com/couchcryptid/exoplanet-habitability/internal/adapter/simbad"
	"github.com/couchcryptid/exoplanet-habitability/internal/adapter/skysurvey"
	"github.com/couchcryptid/exoplanet-habitability/internal/aggregate"
	"github.com/couchcryptid/exoplanet-habitability/internal/config"
	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
	"github.com/couchcryptid/exoplanet-habitability/internal/observability"
	"github.com/couchcryptid/exoplanet-habitability/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	archive := nasa.NewClient(cfg.NASABaseURL, cfg.NASATimeout, logger)
	ident := simbad.NewClient(cfg.SimbadBaseURL, cfg.SimbadTimeout, logger)
	coordinator := aggregate.New(archive, ident, logger, metrics)

	// Image lookups are feature-flagged via IMAGES_ENABLED.
	var locator domain.ImageLocator
	if cfg.ImagesEnabled {
		client := skysurvey.NewLocator(cfg.CutoutTimeout, logger, metrics)
		locator = skysurvey.NewCachedLocator(client, cfg.ImageCacheSize, metrics)
		logger.Info("sky survey imagery enabled", "cache_size", cfg.ImageCacheSize, "timeout", cfg.CutoutTimeout)
	} else {
		logger.Info("sky survey imagery disabled")
	}

	// Search history is optional; the service runs without a database.
	var store search.HistoryStore
	if cfg.PersistenceEnabled() {
		pg, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("database unreachable, history disabled", "error", err)
		} else {
			defer pg.Close()
			store = pg
			logger.Info("search history enabled")
		}
	} else {
		logger.Info("search history disabled")
	}

	var publisher search.Publisher
	if cfg.PublishingEnabled() {
		writer := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("score publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("score publishing disabled")
	}

	analyzer := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaTimeout, cfg.OllamaProbeTimeout, logger)

	svc := search.New(coordinator, locator, store, publisher, analyzer,
		search.DefaultRenderer, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

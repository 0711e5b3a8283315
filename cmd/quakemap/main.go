// Command quakemap fetches the USGS earthquake feed once, renders it as an
// interactive map, and serves the map with its JSON API until interrupted.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/pipeline"
	"github.com/couchcryptid/quake-map-service/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "quake-map")
	metrics := observability.NewMetrics()

	classifier, err := cfg.Classifier()
	if err != nil {
		logger.Error("invalid classifier settings", "error", err)
		return 1
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	store := render.NewStore()
	renderers := render.Multi{store}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		renderers = append(renderers, writer)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaMarkerTopic)
	}

	fetcher := usgs.NewClient(cfg.FeedURL, cfg.FetchTimeout, metrics, logger)
	transformer := pipeline.NewTransformer(classifier, cfg.Location, geocoder, logger)
	p := pipeline.New(fetcher, transformer, renderers, pipeline.SceneOptions{
		Palette: classifier.Palette(),
		Layers:  domain.BaseLayers(cfg.MapboxToken),
		View:    cfg.View,
	}, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	logger.Info("fetching feed", "url", cfg.FeedURL, "palette", cfg.Palette, "timezone", cfg.DisplayTimezone)
	exitCode := 0
	if _, err := p.Run(ctx); err != nil {
		if errors.Is(err, domain.ErrFetchFailed) {
			logger.Error("feed fetch failed", "error", err)
		} else {
			logger.Error("pipeline error", "error", err)
		}
		exitCode = 1
	} else {
		select {
		case <-ctx.Done():
		case err := <-srvErr:
			logger.Error("http server error", "error", err)
			exitCode = 1
		}
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return exitCode
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/mehara-rothila/SportsBookSL-front-sub004/internal/adapter/http"
	kafkaadapter "github.com/mehara-rothila/SportsBookSL-front-sub004/internal/adapter/kafka"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/adapter/openweather"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/cache"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/config"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/observability"
	"github.com/mehara-rothila/SportsBookSL-front-sub004/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	provider := openweather.NewClient(cfg.OWMAPIKey, cfg.OWMBaseURL, cfg.OWMTimeout, metrics, logger)
	snapshots := cache.New(cfg.CacheMaxEntries, cfg.CacheTTL)

	// Snapshot fan-out is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher *kafkaadapter.Publisher
	var fanout weather.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		fanout = publisher
		metrics.PublisherEnabled.Set(1)
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaSnapshotTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	aggregator := weather.New(provider, snapshots, fanout, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, aggregator, aggregator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bite-score-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/bite-score-service/internal/adapter/kafka"
	"github.com/couchcryptid/bite-score-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/bite-score-service/internal/config"
	"github.com/couchcryptid/bite-score-service/internal/observability"
	"github.com/couchcryptid/bite-score-service/internal/ranking"
	"github.com/couchcryptid/bite-score-service/internal/store"
	"github.com/couchcryptid/bite-score-service/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	spots := store.New(cfg.SpotsPath, logger, metrics)
	if err := spots.Load(); err != nil {
		logger.Error("failed to load spot dataset", "error", err)
		os.Exit(1)
	}

	source := openmeteo.NewClient(cfg, metrics, logger)
	fetcher := weather.NewRegionFetcher(source, cfg, metrics, logger)

	svc := ranking.NewService(spots, fetcher, clockwork.NewRealClock(), cfg, metrics, logger)

	// Kafka sink is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher httpapi.RankingPublisher
	var closer interface{ Close() error }
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, metrics, logger)
		publisher = p
		closer = p
		logger.Info("kafka ranking sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka ranking sink disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, publisher, logger)

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
	if closer != nil {
		if err := closer.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

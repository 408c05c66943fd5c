package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fieldwatch/pest-alert-service/internal/adapter/httpapi"
	kafkaadapter "github.com/fieldwatch/pest-alert-service/internal/adapter/kafka"
	"github.com/fieldwatch/pest-alert-service/internal/adapter/openweather"
	"github.com/fieldwatch/pest-alert-service/internal/checker"
	"github.com/fieldwatch/pest-alert-service/internal/config"
	"github.com/fieldwatch/pest-alert-service/internal/observability"
	"github.com/fieldwatch/pest-alert-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	st := store.New(db)
	if err := st.AutoMigrate(context.Background()); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	weather := openweather.NewClient(cfg.OWMAPIKey, cfg.OWMBaseURL, cfg.WeatherTimeout, logger, metrics)

	// Alert event publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher checker.AlertPublisher
	var closePublisher func() error
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		publisher = p
		closePublisher = p.Close
		logger.Info("alert event publishing enabled", "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("alert event publishing disabled")
	}

	checks := checker.New(st, weather, st, publisher, st, cfg.InternalToken, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, st, st, checks, cfg.AlertListLimit, logger)

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
	if closePublisher != nil {
		if err := closePublisher(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

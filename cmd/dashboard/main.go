package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/modis-fire-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/modis-fire-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/modis-fire-dashboard/internal/adapter/plot"
	"github.com/couchcryptid/modis-fire-dashboard/internal/adapter/xlsx"
	"github.com/couchcryptid/modis-fire-dashboard/internal/artifact"
	"github.com/couchcryptid/modis-fire-dashboard/internal/chart"
	"github.com/couchcryptid/modis-fire-dashboard/internal/config"
	"github.com/couchcryptid/modis-fire-dashboard/internal/dashboard"
	"github.com/couchcryptid/modis-fire-dashboard/internal/dataset"
	"github.com/couchcryptid/modis-fire-dashboard/internal/model"
	"github.com/couchcryptid/modis-fire-dashboard/internal/observability"
	"github.com/couchcryptid/modis-fire-dashboard/internal/pipeline"
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

	// Download anything missing before the first page is served.
	fetcher := artifact.NewFetcher(artifact.Required(cfg), cfg.FetchTimeout, cfg.FetchRetries, logger, metrics)
	if err := fetcher.Ensure(ctx); err != nil {
		logger.Error("failed to fetch artifacts", "error", err)
		os.Exit(1)
	}

	loader := dataset.NewLoader(cfg.DataDir, logger)
	store := dataset.NewStore(loader, cfg.DatasetCacheSize, logger, metrics)

	holder := model.NewHolder(model.FileLoader(model.ONNXConfig{
		ModelPath:   cfg.ModelPath(),
		LibraryPath: cfg.ONNXLibraryPath,
		InputName:   cfg.ONNXInputName,
		OutputName:  cfg.ONNXOutputName,
	}, cfg.ScalerPath()), logger, metrics)

	// Prediction events are feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var (
		publisher pipeline.EventPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("prediction events enabled", "topic", cfg.KafkaPredictionTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("prediction events disabled")
	}

	predictor := pipeline.New(holder, publisher, cfg.ReleaseAfterPredict, logger, metrics)
	charts := chart.NewDefaultRegistry(logger, metrics)
	dash := dashboard.New(fetcher, store, predictor, charts, xlsx.NewWorkbook(), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, dash, plot.NewRenderer(), fetcher, httpadapter.Options{
		CORSOrigins:      cfg.CORSOrigins,
		PredictRateLimit: cfg.PredictRateLimit,
	}, logger)

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
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
	if err := holder.Release(); err != nil {
		logger.Error("model release error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

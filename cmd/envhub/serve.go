package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/envdata-hub/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/envdata-hub/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/envdata-hub/internal/adapter/kafka"
	"github.com/couchcryptid/envdata-hub/internal/config"
	"github.com/couchcryptid/envdata-hub/internal/observability"
	"github.com/couchcryptid/envdata-hub/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source := csvfile.NewSource(cfg.DatasetPaths(), cfg.DatasetCacheSize, logger, metrics)

	// Report publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.ReportPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("report publishing enabled", "topic", cfg.KafkaReportTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("report publishing disabled")
	}

	p := pipeline.New(source, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.CheckReadiness(ctx); err != nil {
		logger.Warn("datasets not ready at startup", "error", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		logger.Error("http server error", "error", serveErr)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return serveErr
}

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/envdata-hub/internal/adapter/csvfile"
	"github.com/couchcryptid/envdata-hub/internal/config"
	"github.com/couchcryptid/envdata-hub/internal/observability"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "envhub",
		Short:        "envhub: snow, groundwater and air-quality dashboards",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newCorrelateCmd(), newAggregateCmd())
	return root
}

// cliEnv is what the terminal commands share: config, a stderr logger, and
// a dataset source backed by the configured CSVs.
type cliEnv struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	source  *csvfile.Source
}

func newCLIEnv() (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := observability.NewLoggerTo(os.Stderr, cfg)
	// Terminal commands expose no /metrics.
	metrics := observability.NewMetricsForTesting()
	return &cliEnv{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		source:  csvfile.NewSource(cfg.DatasetPaths(), cfg.DatasetCacheSize, logger, metrics),
	}, nil
}

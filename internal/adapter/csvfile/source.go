// Package csvfile serves datasets from CSV files on local disk.
package csvfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/envdata-hub/internal/domain"
	"github.com/couchcryptid/envdata-hub/internal/observability"
)

// Source resolves dataset names to CSV files and keeps recently loaded
// datasets in memory until their file changes.
type Source struct {
	paths   map[string]string
	cache   *lruCache
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSource creates a Source over paths, a map of dataset name to file path.
func NewSource(paths map[string]string, cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Source {
	p := make(map[string]string, len(paths))
	for k, v := range paths {
		p[k] = v
	}
	return &Source{
		paths:   p,
		cache:   newLRUCache(cacheSize),
		logger:  logger,
		metrics: metrics,
	}
}

// Path returns the file backing the named dataset.
func (s *Source) Path(name string) (string, bool) {
	p, ok := s.paths[name]
	return p, ok
}

// Load returns the named dataset typed by schema. Unknown names and
// unreadable files fail with a domain.DataLoadError.
func (s *Source) Load(ctx context.Context, name string, schema domain.Schema) (*domain.Dataset, error) {
	path, ok := s.paths[name]
	if !ok {
		return nil, &domain.DataLoadError{Source: name, Err: fmt.Errorf("unknown dataset %q", name)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		s.metrics.DatasetLoads.WithLabelValues(name, "error").Inc()
		return nil, &domain.DataLoadError{Source: path, Err: err}
	}
	st := stamp{modTime: info.ModTime(), size: info.Size()}

	if ds, ok := s.cache.get(name, st); ok {
		s.metrics.DatasetCache.WithLabelValues(name, "hit").Inc()
		return ds, nil
	}
	s.metrics.DatasetCache.WithLabelValues(name, "miss").Inc()

	start := time.Now()
	ds, err := s.read(path, schema)
	if err != nil {
		s.metrics.DatasetLoads.WithLabelValues(name, "error").Inc()
		s.logger.Error("dataset load failed", "dataset", name, "path", path, "error", err)
		return nil, err
	}
	s.metrics.DatasetLoadDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	s.metrics.DatasetLoads.WithLabelValues(name, "success").Inc()
	s.metrics.DatasetRows.WithLabelValues(name).Set(float64(ds.Len()))

	s.cache.put(name, st, ds)
	s.logger.Info("dataset loaded", "dataset", name, "path", path, "rows", ds.Len(), "columns", len(ds.Columns()))
	return ds, nil
}

func (s *Source) read(path string, schema domain.Schema) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.DataLoadError{Source: path, Err: err}
	}
	defer f.Close()
	return domain.ReadCSV(path, f, schema)
}

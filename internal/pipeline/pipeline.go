package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/envdata-hub/internal/domain"
	"github.com/couchcryptid/envdata-hub/internal/observability"
)

// Source loads a named dataset typed by schema.
type Source interface {
	Load(ctx context.Context, name string, schema domain.Schema) (*domain.Dataset, error)
}

// ReportPublisher forwards computed reports downstream.
type ReportPublisher interface {
	Publish(ctx context.Context, dashboard string, generatedAt time.Time, report any) error
}

// Pipeline composes the aggregation operations into dashboard reports.
// It holds no per-request state; every call receives its query explicitly.
type Pipeline struct {
	source    Source
	publisher ReportPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. A nil publisher disables report publishing.
func New(source Source, publisher ReportPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if publisher != nil {
		metrics.PublisherEnabled.Set(1)
	}
	return &Pipeline{
		source:    source,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil when every dataset loads, or the first error
// describing why the service cannot answer requests.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	for _, kind := range []string{domain.KindSnow, domain.KindGroundwater, domain.KindAQI} {
		if _, err := p.load(ctx, kind); err != nil {
			return fmt.Errorf("dataset %s not ready: %w", kind, err)
		}
	}
	return nil
}

// AirQuality computes the air-quality viewer for q.
func (p *Pipeline) AirQuality(ctx context.Context, q AirQualityQuery) (*AirQualityReport, error) {
	start := time.Now()
	r, err := p.airQuality(ctx, q)
	if err != nil {
		return nil, p.fail(DashboardAirQuality, err)
	}
	p.finish(ctx, r, start, true)
	return r, nil
}

// WaterResources computes the water-resource dashboard for q.
func (p *Pipeline) WaterResources(ctx context.Context, q WaterQuery) (*WaterReport, error) {
	start := time.Now()
	r, err := p.water(ctx, q)
	if err != nil {
		return nil, p.fail(DashboardWater, err)
	}
	p.finish(ctx, r, start, true)
	return r, nil
}

// Correlation computes the correlation dashboard for q.
func (p *Pipeline) Correlation(ctx context.Context, q CorrelationQuery) (*CorrelationReport, error) {
	start := time.Now()
	r, err := p.correlation(ctx, q)
	if err != nil {
		return nil, p.fail(DashboardCorrelation, err)
	}
	p.finish(ctx, r, start, true)
	return r, nil
}

// Options lists the selector values every dashboard offers.
func (p *Pipeline) Options(ctx context.Context) (*OptionsReport, error) {
	start := time.Now()
	r, err := p.options(ctx)
	if err != nil {
		return nil, p.fail(DashboardOptions, err)
	}
	p.finish(ctx, r, start, false)
	return r, nil
}

func (p *Pipeline) load(ctx context.Context, kind string) (*domain.Dataset, error) {
	schema, ok := domain.SchemaFor(kind)
	if !ok {
		return nil, &domain.DataLoadError{Source: kind, Err: fmt.Errorf("no schema for dataset kind %q", kind)}
	}
	return p.source.Load(ctx, kind, schema)
}

func (p *Pipeline) fail(dashboard string, err error) error {
	p.metrics.ReportRequests.WithLabelValues(dashboard, "error").Inc()
	p.logger.Warn("report failed", "dashboard", dashboard, "error", err)
	return fmt.Errorf("%s report: %w", dashboard, err)
}

// finish records metrics for a computed report and publishes it. Publish
// failures are logged and counted; they never fail the request.
func (p *Pipeline) finish(ctx context.Context, r Report, start time.Time, publish bool) {
	meta := r.reportMeta()
	p.metrics.ReportRequests.WithLabelValues(meta.Dashboard, "success").Inc()
	p.metrics.ReportDuration.WithLabelValues(meta.Dashboard).Observe(time.Since(start).Seconds())
	for _, w := range meta.Warnings {
		p.metrics.EmptyResults.WithLabelValues(w.Dashboard, w.Stage).Inc()
		p.logger.Info("empty result", "dashboard", w.Dashboard, "stage", w.Stage)
	}

	if !publish || p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, meta.Dashboard, meta.GeneratedAt, r); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish report failed", "dashboard", meta.Dashboard, "error", err)
		return
	}
	p.metrics.ReportsPublished.Inc()
}

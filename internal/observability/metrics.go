package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "envhub"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dataset sources and the dashboard reports.
type Metrics struct {
	// Dataset source metrics.
	DatasetLoads        *prometheus.CounterVec   // labels: dataset, outcome={success,error}
	DatasetCache        *prometheus.CounterVec   // labels: dataset, result={hit,miss}
	DatasetRows         *prometheus.GaugeVec     // labels: dataset
	DatasetLoadDuration *prometheus.HistogramVec // labels: dataset

	// Report metrics.
	ReportRequests *prometheus.CounterVec   // labels: dashboard, outcome={success,error}
	ReportDuration *prometheus.HistogramVec // labels: dashboard
	EmptyResults   *prometheus.CounterVec   // labels: dashboard, stage

	// Report publishing metrics.
	ReportsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset reads from disk by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_total",
			Help:      "Dataset cache lookups by dataset and result.",
		}, []string{"dataset", "result"}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Records in the most recently loaded copy of each dataset.",
		}, []string{"dataset"}),
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time to read and type a dataset from its CSV source.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"dataset"}),
		ReportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_requests_total",
			Help:      "Dashboard reports computed by dashboard and outcome.",
		}, []string{"dashboard", "outcome"}),
		ReportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Duration of a complete dashboard report computation.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"dashboard"}),
		EmptyResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_results_total",
			Help:      "Report stages that produced no rows.",
		}, []string{"dashboard", "stage"}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Reports written to the downstream topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_publish_errors_total",
			Help:      "Reports that could not be written downstream.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_publisher_enabled",
			Help:      "1 when report publishing is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.DatasetLoads,
		m.DatasetCache,
		m.DatasetRows,
		m.DatasetLoadDuration,
		m.ReportRequests,
		m.ReportDuration,
		m.EmptyResults,
		m.ReportsPublished,
		m.PublishErrors,
		m.PublisherEnabled,
	}
}

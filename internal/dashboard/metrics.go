package dashboard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the dashboard's Prometheus collectors.
// Each Server owns a private registry so several servers (and tests) can
// coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by route pattern and status code.
	RequestsTotal *prometheus.CounterVec

	// ChartRenderDuration tracks chart rendering latency by kind and format.
	ChartRenderDuration *prometheus.HistogramVec

	// DatasetLoadsTotal counts dataset loads by result (ok, not_found, error).
	DatasetLoadsTotal *prometheus.CounterVec

	// DatasetLoadDuration tracks how long dataset loads take.
	DatasetLoadDuration prometheus.Histogram

	// DatasetRecords is the number of records in the current snapshot.
	DatasetRecords prometheus.Gauge

	// DatasetDropped is the number of rows dropped from the current snapshot.
	DatasetDropped prometheus.Gauge
}

// NewMetrics creates and registers the dashboard collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proxyscope_http_requests_total",
				Help: "Total number of dashboard HTTP requests",
			},
			[]string{"route", "code"},
		),
		ChartRenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "proxyscope_chart_render_duration_seconds",
				Help:    "Duration of chart rendering in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"kind", "format"},
		),
		DatasetLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proxyscope_dataset_loads_total",
				Help: "Total number of dataset loads by result",
			},
			[]string{"result"},
		),
		DatasetLoadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "proxyscope_dataset_load_duration_seconds",
				Help:    "Duration of dataset loads in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		DatasetRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "proxyscope_dataset_records",
				Help: "Number of cleaned records in the current dataset",
			},
		),
		DatasetDropped: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "proxyscope_dataset_dropped_rows",
				Help: "Number of rows dropped while cleaning the current dataset",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.ChartRenderDuration,
		m.DatasetLoadsTotal,
		m.DatasetLoadDuration,
		m.DatasetRecords,
		m.DatasetDropped,
	)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordLoad records the outcome of a dataset load.
func (m *Metrics) RecordLoad(result string, elapsed time.Duration) {
	m.DatasetLoadsTotal.WithLabelValues(result).Inc()
	m.DatasetLoadDuration.Observe(elapsed.Seconds())
}

// RecordRender records the latency of one chart render.
func (m *Metrics) RecordRender(kind, format string, elapsed time.Duration) {
	m.ChartRenderDuration.WithLabelValues(kind, format).Observe(elapsed.Seconds())
}

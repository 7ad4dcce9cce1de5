package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dinsar"

// Metrics holds the Prometheus collectors for loading and serving dashboard views.
type Metrics struct {
	RowsLoaded    *prometheus.CounterVec // labels: dataset
	RowsRejected  *prometheus.CounterVec // labels: dataset
	MissingValues *prometheus.CounterVec // labels: dataset
	SourceErrors  *prometheus.CounterVec // labels: dataset
	LoadDuration  prometheus.Histogram

	ViewsServed *prometheus.CounterVec // labels: view
	EmptyViews  *prometheus.CounterVec // labels: view

	LastLoadRows prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsRejected,
		m.MissingValues,
		m.SourceErrors,
		m.LoadDuration,
		m.ViewsServed,
		m.EmptyViews,
		m.LastLoadRows,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Rows accepted from CSV sources.",
		}, []string{"dataset"}),
		RowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_rejected_total",
			Help:      "Rows excluded because of an invalid date or run id.",
		}, []string{"dataset"}),
		MissingValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_values_total",
			Help:      "Numeric cells that could not be parsed and were treated as missing.",
		}, []string{"dataset"}),
		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_errors_total",
			Help:      "Sources that could not be opened or parsed.",
		}, []string{"dataset"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of a full load of every configured source.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ViewsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_served_total",
			Help:      "Dashboard views built, by view.",
		}, []string{"view"}),
		EmptyViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_views_total",
			Help:      "Dashboard views whose selection matched no data, by view.",
		}, []string{"view"}),
		LastLoadRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_load_rows",
			Help:      "Long-format rows produced by the most recent load.",
		}),
	}
}

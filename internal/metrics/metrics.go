// Package metrics exposes Prometheus counters for dataset uploads.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fuelmap"

// Upload results.
const (
	ResultOK       = "ok"
	ResultBadInput = "bad_input"
	ResultTooLarge = "too_large"
	ResultError    = "error"
)

var (
	registry *prometheus.Registry

	// UploadsTotal counts dataset uploads by result.
	UploadsTotal *prometheus.CounterVec

	// RowsTotal counts parsed CSV rows by outcome (kept or skipped).
	RowsTotal *prometheus.CounterVec

	// DatasetsActive is the number of datasets held in the session store.
	DatasetsActive prometheus.Gauge
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of CSV uploads by result",
		},
		[]string{"result"},
	)
	RowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Total number of CSV data rows by outcome",
		},
		[]string{"outcome"},
	)
	DatasetsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "datasets_active",
			Help:      "Number of datasets currently held in memory",
		},
	)

	registry.MustRegister(UploadsTotal, RowsTotal, DatasetsActive)
}

// RecordRows adds the kept and skipped row counts of one upload.
func RecordRows(kept, skipped int) {
	RowsTotal.WithLabelValues("kept").Add(float64(kept))
	RowsTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// Handler serves the metrics registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

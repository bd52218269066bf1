// Package observability holds the prometheus collectors for the data pipeline
// and the HTTP surface.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// LoadsTotal counts data source loads by result: ok, fallback, error
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mkt_loads_total",
			Help: "Total number of data source loads",
		},
		[]string{"result"},
	)

	// RowsLoaded counts rows parsed from a data source
	RowsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mkt_rows_loaded_total",
			Help: "Total number of rows parsed from data sources",
		},
	)

	// MissingValues counts blank numeric cells zero-filled by the cleaner
	MissingValues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mkt_missing_values_total",
			Help: "Missing numeric values replaced with zero",
		},
		[]string{"field"},
	)

	// ClippedValues counts negative financial values clipped to zero
	ClippedValues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mkt_clipped_values_total",
			Help: "Negative financial values clipped to zero",
		},
		[]string{"field"},
	)

	// OutliersDropped counts rows removed by the z-score filter
	OutliersDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mkt_outliers_dropped_total",
			Help: "Rows dropped as statistical outliers",
		},
		[]string{"field"},
	)

	// ROASMismatches counts rows whose stored ROAS disagrees with the computed one
	ROASMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mkt_roas_mismatch_rows_total",
			Help: "Rows where stored and computed ROAS differ beyond tolerance",
		},
	)

	// CacheRequests counts snapshot cache lookups by result: hit, miss
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mkt_cache_requests_total",
			Help: "Snapshot cache lookups",
		},
		[]string{"result"},
	)

	// StageDuration measures pipeline stages in seconds
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mkt_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"stage"},
	)

	// HTTPRequests counts API requests by route and status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mkt_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"route", "status"},
	)

	// HTTPDuration measures API latency in seconds
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mkt_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func RecordLoad(result string, rows int) {
	LoadsTotal.WithLabelValues(result).Inc()
	if rows > 0 {
		RowsLoaded.Add(float64(rows))
	}
}

// RecordCleaning adds the per-field counts of one cleaning pass
func RecordCleaning(missing, clipped, outliers map[string]int, mismatches int) {
	for f, n := range missing {
		MissingValues.WithLabelValues(f).Add(float64(n))
	}
	for f, n := range clipped {
		ClippedValues.WithLabelValues(f).Add(float64(n))
	}
	for f, n := range outliers {
		OutliersDropped.WithLabelValues(f).Add(float64(n))
	}
	if mismatches > 0 {
		ROASMismatches.Add(float64(mismatches))
	}
}

func RecordCache(hit bool) {
	if hit {
		CacheRequests.WithLabelValues("hit").Inc()
		return
	}
	CacheRequests.WithLabelValues("miss").Inc()
}

func RecordStage(stage string, seconds float64) {
	StageDuration.WithLabelValues(stage).Observe(seconds)
}

func RecordHTTPRequest(route, status string, seconds float64) {
	HTTPRequests.WithLabelValues(route, status).Inc()
	HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// Package metrics defines the Prometheus instrumentation for the resolver
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Resolution metrics
	ResolutionsTotal       *prometheus.CounterVec
	ResolveDurationSeconds prometheus.Histogram

	// Search metrics
	SearchesTotal         prometheus.Counter
	SearchResults         prometheus.Histogram
	SearchDurationSeconds prometheus.Histogram

	// Known-mapping metrics
	MappingHitsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Index metrics
	IndexRecords         prometheus.Gauge
	IndexKeys            prometheus.Gauge
	IndexCanonicalGroups prometheus.Gauge

	// Singleflight metrics
	SingleflightDedupTotal prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Resolution metrics
		ResolutionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolver_resolutions_total",
				Help: "Total number of name resolutions by pipeline stage",
			},
			[]string{"stage"}, // stage: blank, special_case, exact, aggressive, substring, prefix, unmatched
		),

		ResolveDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "resolver_resolve_duration_seconds",
				Help:    "Duration of resolve requests in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		// Search metrics
		SearchesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "resolver_searches_total",
				Help: "Total number of search requests",
			},
		),

		SearchResults: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "resolver_search_results",
				Help:    "Number of results returned per search request",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),

		SearchDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "resolver_search_duration_seconds",
				Help:    "Duration of search requests in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		// Known-mapping metrics
		MappingHitsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolver_mapping_hits_total",
				Help: "Total number of known-mapping lookups by outcome",
			},
			[]string{"outcome"}, // outcome: hit, miss
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "resolver_http_errors_total",
				Help: "Total HTTP errors by type and endpoint",
			},
			[]string{"error_type", "endpoint"}, // error_type: bad_request, not_found, internal, etc.
		),

		// Index metrics
		IndexRecords: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "resolver_index_records",
				Help: "Number of institution records in the reference index",
			},
		),

		IndexKeys: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "resolver_index_keys",
				Help: "Number of normalized keys in the reference index",
			},
		),

		IndexCanonicalGroups: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "resolver_index_canonical_groups",
				Help: "Number of canonical name groups in the index",
			},
		),

		// Singleflight metrics
		SingleflightDedupTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "resolver_singleflight_dedup_total",
				Help: "Total number of index builds deduplicated by singleflight",
			},
		),
	}

	return m
}

// RecordResolution records one resolved name by pipeline stage
func (m *Metrics) RecordResolution(stage string) {
	m.ResolutionsTotal.WithLabelValues(stage).Inc()
}

// RecordResolveDuration records the duration of a resolve request
func (m *Metrics) RecordResolveDuration(duration float64) {
	m.ResolveDurationSeconds.Observe(duration)
}

// RecordSearchResults records one search request and its result count
func (m *Metrics) RecordSearchResults(count int) {
	m.SearchesTotal.Inc()
	m.SearchResults.Observe(float64(count))
}

// RecordSearchDuration records the duration of a search request
func (m *Metrics) RecordSearchDuration(duration float64) {
	m.SearchDurationSeconds.Observe(duration)
}

// RecordMappingHit records a known-mapping lookup outcome
func (m *Metrics) RecordMappingHit(outcome string) {
	m.MappingHitsTotal.WithLabelValues(outcome).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, endpoint string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordInitDedup records an index build deduplicated by singleflight
func (m *Metrics) RecordInitDedup() {
	m.SingleflightDedupTotal.Inc()
}

// SetIndexSizes publishes the index size gauges after a successful build
func (m *Metrics) SetIndexSizes(records, keys, groups int) {
	m.IndexRecords.Set(float64(records))
	m.IndexKeys.Set(float64(keys))
	m.IndexCanonicalGroups.Set(float64(groups))
}

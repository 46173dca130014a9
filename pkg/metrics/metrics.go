// Package metrics defines the Prometheus collectors of the place search server and exposes a handler for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	QueryAutocomplete = "autocomplete"
	QueryPrefix       = "prefix"
	QueryNearest      = "nearest"
	QueryPlaceByID    = "place_by_id"

	ResultHit   = "hit"
	ResultEmpty = "zero_result"
	ResultError = "error"
)

// Metrics holds the collectors on its own registry, so several instances can live side by side in tests.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	QueriesTotal        *prometheus.CounterVec
	QueryLatency        *prometheus.HistogramVec
	QueryResultsCount   *prometheus.HistogramVec
	CandidatesCount     *prometheus.HistogramVec
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "place_queries_total",
				Help: "Total place queries by kind and result type (hit, zero_result, error).",
			},
			[]string{"kind", "result_type"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "place_query_latency_seconds",
				Help:    "Place query latency in seconds.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"kind"},
		),
		QueryResultsCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "place_query_results_count",
				Help:    "Number of results returned per place query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"kind"},
		),
		CandidatesCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "place_query_candidates_count",
				Help:    "Number of trie or grid candidates fetched per place query.",
				Buckets: []float64{0, 1, 10, 50, 100, 250, 500, 1000},
			},
			[]string{"kind"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "document_cache_hits_total",
				Help: "Total number of document store cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "document_cache_misses_total",
				Help: "Total number of document store cache misses.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResultsCount,
		m.CandidatesCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for this instance.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WatchCacheSize registers a gauge that reports size on every scrape.
func (m *Metrics) WatchCacheSize(size func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "document_cache_entries",
			Help: "Number of places held in the document store cache.",
		},
		func() float64 { return float64(size()) },
	))
}

func (m *Metrics) CacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) CacheMiss() {
	m.CacheMissesTotal.Inc()
}

// ObserveQuery records one finished query.
func (m *Metrics) ObserveQuery(kind string, start time.Time, candidates, results int, err error) {
	resultType := ResultHit
	switch {
	case err != nil:
		resultType = ResultError
	case results == 0:
		resultType = ResultEmpty
	}
	m.QueriesTotal.WithLabelValues(kind, resultType).Inc()
	m.QueryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err == nil {
		m.QueryResultsCount.WithLabelValues(kind).Observe(float64(results))
		m.CandidatesCount.WithLabelValues(kind).Observe(float64(candidates))
	}
}

// ObserveHTTP records one finished HTTP request.
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

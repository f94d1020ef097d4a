// Package telemetry counts catalog activity with Prometheus collectors kept in
// a private registry. A nil *Metrics is valid and records nothing.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeNetwork   = "network"
	OutcomeServer    = "server"
	OutcomeCancelled = "cancelled"
)

// Metrics holds the client's collectors
type Metrics struct {
	registry     *prometheus.Registry
	fetches      *prometheus.CounterVec
	latency      prometheus.Histogram
	deduplicated prometheus.Counter
	anomalies    *prometheus.CounterVec
	cache        *prometheus.CounterVec
}

// New registers the collectors in a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coursedeck_fetches_total",
			Help: "The total number of catalog fetches by outcome",
		}, []string{"outcome"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "coursedeck_fetch_duration_seconds",
			Help:    "Latency of catalog fetches that were not cancelled",
			Buckets: prometheus.DefBuckets,
		}),
		deduplicated: factory.NewCounter(prometheus.CounterOpts{
			Name: "coursedeck_deduplicated_total",
			Help: "The total number of filter observations that needed no fetch",
		}),
		anomalies: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coursedeck_location_anomalies_total",
			Help: "The total number of malformed location values replaced by defaults",
		}, []string{"key"}),
		cache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "coursedeck_cache_lookups_total",
			Help: "The total number of page cache lookups by result",
		}, []string{"result"}),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FetchDone records a finished fetch
func (m *Metrics) FetchDone(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	if outcome != OutcomeCancelled {
		m.latency.Observe(elapsed.Seconds())
	}
}

// Deduplicated records an observation that matched the current fetch key
func (m *Metrics) Deduplicated() {
	if m == nil {
		return
	}
	m.deduplicated.Inc()
}

// Anomaly records a malformed location value
func (m *Metrics) Anomaly(key string) {
	if m == nil {
		return
	}
	if key == "" {
		key = "unknown"
	}
	m.anomalies.WithLabelValues(key).Inc()
}

// CacheHit records a page served from the cache
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cache.WithLabelValues("hit").Inc()
}

// CacheMiss records a page that had to be fetched
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cache.WithLabelValues("miss").Inc()
}

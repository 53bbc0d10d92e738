// Package metrics exposes Prometheus collectors for the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors used by the API.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	CacheResults       *prometheus.CounterVec
	UpstreamErrors     *prometheus.CounterVec
	RateLimitDropped   prometheus.Counter

	registry *prometheus.Registry
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repo_insights_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "repo_insights_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		CacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repo_insights_cache_results_total",
			Help: "Metric responses by endpoint and cache result (HIT or MISS).",
		}, []string{"endpoint", "result"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repo_insights_upstream_errors_total",
			Help: "Total number of failed upstream computations by endpoint.",
		}, []string{"endpoint"}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repo_insights_ratelimit_dropped_total",
			Help: "Total number of requests dropped by the rate limiter.",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.CacheResults,
		m.UpstreamErrors,
		m.RateLimitDropped,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCache(endpoint string, freshness domain.Freshness) {
	m.CacheResults.WithLabelValues(endpoint, string(freshness)).Inc()
}

func (m *Metrics) ObserveUpstreamError(endpoint string) {
	m.UpstreamErrors.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// normalizeRoute uses the matched mux pattern so owner and repository names do not become label values.
func normalizeRoute(r *http.Request) string {
	if r.Pattern == "" {
		return "other"
	}
	return r.Pattern
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

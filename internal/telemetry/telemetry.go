// Package telemetry exposes Prometheus collectors and OpenTelemetry tracing helpers for the travelhub service.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// --- CUSTOM METRIC DEFINITIONS ---

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_upstream_requests_total",
			Help: "Total number of outbound requests, labeled by service and outcome.",
		},
		[]string{"service", "outcome"},
	)

	upstreamRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travelhub_upstream_request_duration_seconds",
			Help:    "Histogram of outbound request latencies, labeled by service.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"service"},
	)

	enrichmentOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travelhub_enrichment_outcomes_total",
			Help: "Enrichment step results, labeled by kind, step, and outcome.",
		},
		[]string{"kind", "step", "outcome"},
	)

	countryCacheRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "travelhub_country_cache_records",
			Help: "Number of country records held in the session cache.",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	rateLimitDelaysSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travelhub_rate_limit_delays_seconds",
			Help:    "Histogram of rate limit wait durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service"},
	)
)

// --- HTTP HANDLER & MIDDLEWARE ---

// Handler returns the standard Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware is a chi middleware that records HTTP request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		ObserveHTTPRequest(r.Method, routePattern, ww.statusCode, time.Since(start))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// --- HELPER FUNCTIONS ---

// ObserveUpstream records one outbound call. Outcome is "ok", "status_<code>" or "error".
func ObserveUpstream(service, outcome string, duration time.Duration) {
	upstreamRequestsTotal.WithLabelValues(service, outcome).Inc()
	upstreamRequestDurationSeconds.WithLabelValues(service).Observe(duration.Seconds())
}

// ObserveEnrichment records the result of a single enrichment step.
func ObserveEnrichment(kind, step, outcome string) {
	enrichmentOutcomesTotal.WithLabelValues(kind, step, outcome).Inc()
}

// SetCountryCacheSize reports how many records the cache holds.
func SetCountryCacheSize(n int) {
	countryCacheRecords.Set(float64(n))
}

// ObserveHTTPRequest records metrics for an HTTP request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRateLimitDelay records the duration of a rate limit wait.
func ObserveRateLimitDelay(service string, duration time.Duration) {
	rateLimitDelaysSeconds.WithLabelValues(service).Observe(duration.Seconds())
}

// StatusOutcome maps an HTTP status to the outcome label used by ObserveUpstream.
func StatusOutcome(code int) string {
	if code >= 200 && code < 300 {
		return "ok"
	}
	return "status_" + strconv.Itoa(code)
}

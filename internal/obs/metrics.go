// Package obs provides Prometheus metrics and the health endpoint.
package obs

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScrapeBuckets covers vendor round trips from fast cache hits to sites
// that stall close to the fan-out deadline.
var ScrapeBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20}

var (
	// RequestsTotal counts HTTP requests by path and status code.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewise_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"path", "status"},
	)

	// SearchDuration records the duration of one full search fan-out.
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricewise_search_duration_seconds",
			Help:    "Search fan-out duration",
			Buckets: ScrapeBuckets,
		},
	)

	// AdapterErrorsTotal counts failed adapter fetches by platform.
	AdapterErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewise_adapter_errors_total",
			Help: "Adapter fetch failures",
		},
		[]string{"platform"},
	)

	// CacheHitsTotal counts searches served from the result cache.
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewise_cache_hits_total",
			Help: "Search cache hits",
		},
	)

	// RateLimitRejectedTotal counts requests rejected by the per-IP limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricewise_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)

	// DescribeRequestsTotal counts description-service calls by outcome.
	DescribeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricewise_describe_requests_total",
			Help: "Description service calls",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		SearchDuration,
		AdapterErrorsTotal,
		CacheHitsTotal,
		RateLimitRejectedTotal,
		DescribeRequestsTotal,
	)
}

// MetricsHandler serves the Prometheus exposition endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}
}

// Package metrics exposes Prometheus collectors for the BFF: request
// totals, proxy cache outcomes and upstream health.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_bff",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront_bff",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	cacheOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_bff",
			Subsystem: "proxy",
			Name:      "cache_outcomes_total",
			Help:      "Proxy cache lookups by resource and outcome (hit, stale, miss).",
		},
		[]string{"resource", "outcome"},
	)

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_bff",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Upstream API calls by path and status.",
		},
		[]string{"path", "status"},
	)

	upstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_bff",
			Subsystem: "upstream",
			Name:      "failures_total",
			Help:      "Upstream transport/parse failures by path.",
		},
		[]string{"path"},
	)

	invalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront_bff",
			Subsystem: "proxy",
			Name:      "cache_invalidations_total",
			Help:      "Forced cache invalidations by tag.",
		},
		[]string{"tag"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		cacheOutcomes,
		upstreamRequests,
		upstreamFailures,
		invalidations,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware collects request totals and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordCacheOutcome records a proxy cache lookup result.
func RecordCacheOutcome(resource, outcome string) {
	cacheOutcomes.WithLabelValues(resource, outcome).Inc()
}

// RecordUpstream records a completed upstream call.
func RecordUpstream(path string, status int) {
	upstreamRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// RecordUpstreamFailure records an upstream transport or parse failure.
func RecordUpstreamFailure(path string) {
	upstreamFailures.WithLabelValues(path).Inc()
}

// RecordInvalidation records a forced tag invalidation.
func RecordInvalidation(tag string) {
	invalidations.WithLabelValues(tag).Inc()
}

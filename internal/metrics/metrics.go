// Package metrics provides Prometheus metrics collection for the cartonization service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PackingComputationsTotal counts packing computations by outcome and strategy.
	PackingComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartonization_computations_total",
			Help: "Total number of packing computations",
		},
		[]string{"status", "strategy"},
	)

	// PackingComputationDuration tracks how long a packing computation takes.
	PackingComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cartonization_computation_duration_seconds",
			Help:    "Packing computation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 1.0},
		},
		[]string{"strategy"},
	)

	// PackagesPerSolution tracks how many cartons a solution needs.
	PackagesPerSolution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cartonization_packages_per_solution",
			Help:    "Number of packages per packing solution",
			Buckets: []float64{1, 2, 3, 4, 5, 8, 13, 21},
		},
	)

	// PackageUtilization tracks per-package volume utilization.
	PackageUtilization = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cartonization_package_utilization_ratio",
			Help:    "Occupied volume divided by carton volume",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)

	// FallbacksTotal counts computations completed by the first-fit fallback.
	FallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cartonization_fallbacks_total",
			Help: "Total number of computations that fell back to first-fit",
		},
	)

	// CoalescedRequestsTotal counts requests served by another caller's in-flight computation.
	CoalescedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cartonization_coalesced_requests_total",
			Help: "Total number of requests coalesced onto an in-flight computation",
		},
	)

	// CatalogVersion is the carton catalog version currently in use.
	CatalogVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cartonization_catalog_version",
			Help: "Carton catalog version of the latest snapshot",
		},
	)

	// DependencyCallsTotal counts calls to external collaborators by outcome.
	DependencyCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartonization_dependency_calls_total",
			Help: "Total number of calls to external dependencies",
		},
		[]string{"dependency", "result"},
	)

	// EventsPublishedTotal counts outbound events by result.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartonization_events_published_total",
			Help: "Total number of published domain events",
		},
		[]string{"type", "result"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordComputation records metrics for a packing computation.
func RecordComputation(duration time.Duration, status, strategy string) {
	PackingComputationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	PackingComputationsTotal.WithLabelValues(status, strategy).Inc()
}

// RecordSolution records the shape of a freshly computed solution.
func RecordSolution(utilizations []float64, fallback bool) {
	PackagesPerSolution.Observe(float64(len(utilizations)))
	for _, u := range utilizations {
		PackageUtilization.Observe(u)
	}
	if fallback {
		FallbacksTotal.Inc()
	}
}

// RecordCoalesced records a request that reused an in-flight computation.
func RecordCoalesced() {
	CoalescedRequestsTotal.Inc()
}

// SetCatalogVersion publishes the catalog version in use.
func SetCatalogVersion(version int64) {
	CatalogVersion.Set(float64(version))
}

// RecordDependencyCall records a call to an external collaborator.
func RecordDependencyCall(dependency, result string) {
	DependencyCallsTotal.WithLabelValues(dependency, result).Inc()
}

// RecordEventPublished records an outbound event publish attempt.
func RecordEventPublished(eventType, result string) {
	EventsPublishedTotal.WithLabelValues(eventType, result).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

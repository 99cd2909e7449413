// Package metrics holds the Prometheus instruments for the platform.
// Collectors are registered once at init via promauto; handlers and
// middleware increment them through the exported vars.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "atp"

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)
	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of rejected authentications",
		},
	)

	// Storage operation metrics
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_storage_operation_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Tool usage metrics
	ToolAccessCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_tool_access_total",
			Help: "Total number of recorded tool accesses",
		},
		[]string{"tool_id", "action"},
	)
)

// TrackStorageOperation returns a deferred-friendly func that records the
// duration of a storage operation:
//
//	defer metrics.TrackStorageOperation("save_tool")(time.Now())
func TrackStorageOperation(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		StorageOperationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}

// RecordToolAccess increments the usage counter for a tool.
func RecordToolAccess(toolID, action string) {
	ToolAccessCounter.WithLabelValues(toolID, action).Inc()
}

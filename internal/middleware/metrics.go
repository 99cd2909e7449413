package middleware

import (
	"strconv"
	"time"

	"github.com/apphgio/tools_platform_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records a counter and a duration histogram per HTTP
// request, labelled by method, route template and status. The route
// template is used rather than the raw URL so path parameters do not
// explode label cardinality.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			// Unmatched routes (404s) collapse into one series.
			path = "unmatched"
		}

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
	}
}

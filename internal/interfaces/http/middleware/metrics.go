package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/LexBridge-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// Metrics records one observation per request, labeled by the route
// template so path parameters don't explode cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		started := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, c.Request.Method, path,
			c.Writer.Status(), time.Since(started), c.Writer.Size())
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sped-tracker-api/internal/service"
)

// Metrics records request latency and status per route. Responses with 503
// also count as storage failures.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, time.Since(start))
		if status == http.StatusServiceUnavailable {
			metricsSvc.RecordStorageFailure()
		}
	}
}

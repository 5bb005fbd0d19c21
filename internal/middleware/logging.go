package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/metrics"
)

// Logger logs request details through the structured logger and records the
// per-request metrics.
func Logger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		log.LogHTTPRequest(c.Request.Method, path, c.ClientIP(), status, duration)

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, endpoint, strconv.Itoa(status), duration.Seconds())
	}
}

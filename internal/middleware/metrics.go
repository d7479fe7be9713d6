package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/metrics"
)

var probeSuffixes = []string{"/health", "/ready", "/metrics"}

// isProbePath matches health, readiness and scrape endpoints at any base path
func isProbePath(path string) bool {
	for _, suffix := range probeSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// Metrics returns a middleware that records HTTP metrics for API routes
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProbePath(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

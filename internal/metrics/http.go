package metrics

import (
	"strconv"
	"time"
)

// RecordHTTPRequest counts a served request under its route pattern and
// status class, and observes its latency
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, route, statusClass(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	})
}

// statusClass folds a status code into "2xx".."5xx"; anything outside
// 200-599 is "unknown"
func statusClass(code int) string {
	if code < 200 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

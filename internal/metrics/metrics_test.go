package metrics

import (
	"regexp"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// getTestMetrics returns metrics bound to a private registry so tests never
// collide on the default registerer
func getTestMetrics() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

// TestMetricsInitialization tests that all metrics are properly initialized
func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.DBConnectionsOpen)
	assert.NotNil(t, m.DBConnectionsInUse)
	assert.NotNil(t, m.DBConnectionsIdle)
	assert.NotNil(t, m.DBQueryDuration)
	assert.NotNil(t, m.DBQueryErrors)
	assert.NotNil(t, m.ExternalAPIRequestDuration)
	assert.NotNil(t, m.ExternalAPIRequestsTotal)
	assert.NotNil(t, m.ExternalAPIErrors)
	assert.NotNil(t, m.OptimisticOperationsTotal)
	assert.NotNil(t, m.OptimisticOperationDuration)
	assert.NotNil(t, m.OperationsInFlight)
	assert.NotNil(t, m.CommentsLoaded)
	assert.NotNil(t, m.CommentCreatedTotal)
	assert.NotNil(t, m.CommentLikeToggledTotal)
	assert.NotNil(t, m.TombstonesCompactedTotal)
}

// All metric names must use snake_case and carry the service namespace
func TestMetricNaming_SnakeCaseWithNamespace(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, zap.NewNop())

	// Touch the vectors so they are exported
	m.RecordHTTPRequest("GET", "/api/posts/:postId/comments", 200, 0)
	m.RecordDBQuery("select", "comments", 0, nil)
	m.RecordExternalAPICall("/api/comments", "POST", 500, 0, nil)
	m.RecordOptimisticOperation("add", OutcomeCommitted, 0)

	families, err := registry.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	snake := regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	for _, mf := range families {
		name := mf.GetName()
		assert.Regexp(t, snake, name)
		assert.Regexp(t, "^"+namespace+"_", name)
		assert.NotEmpty(t, mf.GetHelp(), "metric %s must have help text", name)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	m := getTestMetrics()

	m.RecordHTTPRequest("POST", "/api/posts/:postId/comments", 201, 0)
	m.RecordHTTPRequest("POST", "/api/posts/:postId/comments", 404, 0)

	ok := getCounterValue(t, m.HTTPRequestsTotal.WithLabelValues("POST", "/api/posts/:postId/comments", "2xx"))
	notFound := getCounterValue(t, m.HTTPRequestsTotal.WithLabelValues("POST", "/api/posts/:postId/comments", "4xx"))
	assert.Equal(t, 1.0, ok)
	assert.Equal(t, 1.0, notFound)
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{302, "3xx"},
		{409, "4xx"},
		{503, "5xx"},
		{599, "5xx"},
		{100, "unknown"},
		{600, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusClass(tt.code), "code %d", tt.code)
	}
}

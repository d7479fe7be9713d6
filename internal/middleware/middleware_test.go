package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/metrics"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/response"
)

func setupTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, c.Write(metric))
	return metric.Counter.GetValue()
}

func TestViewer(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		required   bool
		header     string
		wantStatus int
		wantCode   string
		wantViewer bool
	}{
		{name: "valid header", required: true, header: userID.String(), wantStatus: http.StatusOK, wantViewer: true},
		{name: "missing required header", required: true, wantStatus: http.StatusUnauthorized, wantCode: response.ErrCodeUnauthorized},
		{name: "missing optional header", required: false, wantStatus: http.StatusOK},
		{name: "malformed header", required: false, header: "not-a-uuid", wantStatus: http.StatusBadRequest, wantCode: response.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(Viewer(tt.required))
			var seen uuid.UUID
			var ok bool
			router.GET("/probe", func(c *gin.Context) {
				seen, ok = ViewerID(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
			}
			assert.Equal(t, tt.wantViewer, ok)
			if tt.wantViewer {
				assert.Equal(t, userID, seen)
			}
		})
	}
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	router := setupTestRouter(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, response.ErrCodeInternal, body.Error.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			userID := uuid.New()
			router := setupTestRouter(Viewer(false), Logger(zap.New(core)))
			router.GET("/probe", func(c *gin.Context) {
				c.Status(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/probe?page=2", nil)
			req.Header.Set(UserIDHeader, userID.String())
			router.ServeHTTP(httptest.NewRecorder(), req)

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, "/probe", fields["path"])
			assert.Equal(t, "page=2", fields["query"])
			assert.Equal(t, userID.String(), fields["user_id"])
			assert.Equal(t, "/probe", fields["route"])
		})
	}
}

func TestLogger_ProbesAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := setupTestRouter(Logger(zap.New(core)))
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, 0, logs.Len())
}

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	router := setupTestRouter(Metrics(m))
	router.GET("/posts/:postId/comments", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/posts/a/comments", "/posts/b/comments", "/health"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, counterValue(t, m.HTTPRequestsTotal.WithLabelValues("GET", "/posts/:postId/comments", "2xx")))
	assert.Equal(t, 0.0, counterValue(t, m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "2xx")))
}

func TestIsProbePath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/metrics", true},
		{"/api/health", true},
		{"/api/ready", true},
		{"/api/posts/1/comments", false},
		{"/api/comments/1/like", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isProbePath(tt.path), tt.path)
	}
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	router := setupTestRouter(Metrics(m))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 1.0, counterValue(t, m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "4xx")))
}

func TestCORS(t *testing.T) {
	router := setupTestRouter(CORS([]string{"https://app.example"}))
	router.POST("/comments", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewBufferString("{}"))
		req.Header.Set("Origin", "https://app.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/comments", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/comments", nil)
		req.Header.Set("Origin", "https://app.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-user-id")
	})
}

func TestCORS_AllowAll(t *testing.T) {
	router := setupTestRouter(CORS([]string{"*"}))
	router.GET("/comments", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/comments", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

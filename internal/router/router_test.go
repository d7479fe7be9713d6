package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/client"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/commenttree"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/database"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/metrics"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/service"
)

const testPlaceholder = "[deleted]"

// setupTestRouter creates a test router backed by in-memory SQLite
func setupTestRouter(t *testing.T, basePath string) (Config, *prometheus.Registry) {
	t.Helper()
	db, err := database.New(database.Config{Driver: database.DriverSQLite, DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, nil))
	t.Cleanup(func() { _ = database.Close(db) })

	registry := prometheus.NewRegistry()
	return Config{
		DB:             db,
		Logger:         zap.NewNop(),
		Metrics:        metrics.NewWithRegistry(registry, zap.NewNop()),
		BasePath:       basePath,
		AllowedOrigins: []string{"*"},
		Comments:       service.Config{MaxDepth: 3, MaxContentLength: 100, DeletedPlaceholder: testPlaceholder},
		Gatherer:       registry,
	}, registry
}

func TestHealthEndpoints(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	router := Setup(cfg)

	for _, path := range []string{"/health", "/ready", "/api/health", "/api/ready"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestReady_DatabaseClosed(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	router := Setup(cfg)
	require.NoError(t, database.Close(cfg.DB))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	router := Setup(cfg)

	// one request so the HTTP series exists
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/posts/p1/comments", nil))

	for _, path := range []string{"/metrics", "/api/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
			body := w.Body.String()
			assert.Contains(t, body, "# HELP")
			assert.Contains(t, body, "comment_tree_http_requests_total")
		})
	}
}

func TestMutationsRequireViewer(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	router := Setup(cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/posts/p1/comments", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/p1/comments", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func newStore(t *testing.T, baseURL string, userID uuid.UUID) *commenttree.Store {
	t.Helper()
	c := client.NewCommentClient(baseURL, userID.String(), 5*time.Second, zap.NewNop(), nil)
	return commenttree.New(commenttree.Config{
		PostID:             "post-1",
		Actor:              domain.UserSummary{ID: userID.String(), Username: "tester"},
		MaxDepth:           3,
		PageSize:           10,
		DeletedPlaceholder: testPlaceholder,
	}, c, nil, zap.NewNop())
}

// TestStoreAgainstBackend drives the optimistic store through the HTTP client
// against the real router.
func TestStoreAgainstBackend(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	server := httptest.NewServer(Setup(cfg))
	t.Cleanup(server.Close)

	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	aliceStore := newStore(t, server.URL+"/api", alice)
	bobStore := newStore(t, server.URL+"/api", bob)

	require.NoError(t, aliceStore.Refresh(ctx))
	assert.Equal(t, 0, aliceStore.Count())

	root, err := aliceStore.AddComment(ctx, "hello")
	require.NoError(t, err)
	assert.False(t, root.IsTemporary())
	_, err = uuid.Parse(root.ID)
	require.NoError(t, err)

	reply, err := aliceStore.ReplyToComment(ctx, root.ID, "replying to myself")
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)

	_, err = aliceStore.EditComment(ctx, root.ID, "hello, edited")
	require.NoError(t, err)

	// bob sees alice's thread and likes the reply
	require.NoError(t, bobStore.Refresh(ctx))
	require.Equal(t, 2, bobStore.Count())
	like, err := bobStore.ToggleLike(ctx, reply.ID)
	require.NoError(t, err)
	assert.True(t, like.IsLiked)
	assert.Equal(t, 1, like.LikesCount)

	// bob may not edit alice's comment; the local edit rolls back
	_, err = bobStore.EditComment(ctx, root.ID, "mine now")
	var remote *commenttree.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "mine now", remote.Content)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	got, ok := bobStore.Find(root.ID)
	require.True(t, ok)
	assert.Equal(t, "hello, edited", got.Content)

	// root has a reply so both sides tombstone it
	require.NoError(t, aliceStore.DeleteComment(ctx, root.ID))
	local, ok := aliceStore.Find(root.ID)
	require.True(t, ok)
	assert.True(t, local.IsDeleted)

	require.NoError(t, aliceStore.Refresh(ctx))
	server1, ok := aliceStore.Find(root.ID)
	require.True(t, ok)
	assert.True(t, server1.IsDeleted)
	assert.Equal(t, testPlaceholder, server1.Content)
	serverReply, ok := aliceStore.Find(reply.ID)
	require.True(t, ok)
	assert.Equal(t, 1, serverReply.LikesCount)
	assert.False(t, serverReply.IsLiked)

	// leaf delete removes it everywhere
	require.NoError(t, aliceStore.DeleteComment(ctx, reply.ID))
	_, ok = aliceStore.Find(reply.ID)
	assert.False(t, ok)
	require.NoError(t, bobStore.Refresh(ctx))
	_, ok = bobStore.Find(reply.ID)
	assert.False(t, ok)
}

func TestStoreLoadMoreAgainstBackend(t *testing.T) {
	cfg, _ := setupTestRouter(t, "/api")
	server := httptest.NewServer(Setup(cfg))
	t.Cleanup(server.Close)

	ctx := context.Background()
	userID := uuid.New()
	writer := newStore(t, server.URL+"/api", userID)
	for i := 0; i < 12; i++ {
		_, err := writer.AddComment(ctx, "comment")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	reader := newStore(t, server.URL+"/api", userID)
	require.NoError(t, reader.Refresh(ctx))
	assert.Equal(t, 10, reader.Count())
	assert.True(t, reader.HasNextPage())

	more, err := reader.LoadMore(ctx)
	require.NoError(t, err)
	assert.Len(t, more, 2)
	assert.Equal(t, 12, reader.Count())
	assert.False(t, reader.HasNextPage())

	// the writer's tree is newest first, like the server's
	assert.Equal(t, ids(writer.Comments()), ids(reader.Comments()))
}

func ids(comments []*domain.Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}

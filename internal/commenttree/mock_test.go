package commenttree

import (
	"context"
	"time"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/dto"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	ListCommentsFunc      func(ctx context.Context, postID string, page, limit int) (*dto.CommentListResponse, error)
	CreateCommentFunc     func(ctx context.Context, postID string, req dto.CreateCommentRequest) (*domain.Comment, error)
	UpdateCommentFunc     func(ctx context.Context, commentID string, req dto.UpdateCommentRequest) (*domain.Comment, error)
	DeleteCommentFunc     func(ctx context.Context, commentID string) error
	ToggleCommentLikeFunc func(ctx context.Context, commentID string) (*dto.LikeResponse, error)
}

func (m *MockCommentService) ListComments(ctx context.Context, postID string, page, limit int) (*dto.CommentListResponse, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, postID, page, limit)
	}
	return &dto.CommentListResponse{Comments: []*domain.Comment{}, Page: page, Limit: limit}, nil
}

func (m *MockCommentService) CreateComment(ctx context.Context, postID string, req dto.CreateCommentRequest) (*domain.Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, postID, req)
	}
	return nil, nil
}

func (m *MockCommentService) UpdateComment(ctx context.Context, commentID string, req dto.UpdateCommentRequest) (*domain.Comment, error) {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, commentID, req)
	}
	return nil, nil
}

func (m *MockCommentService) DeleteComment(ctx context.Context, commentID string) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(ctx, commentID)
	}
	return nil
}

func (m *MockCommentService) ToggleCommentLike(ctx context.Context, commentID string) (*dto.LikeResponse, error) {
	if m.ToggleCommentLikeFunc != nil {
		return m.ToggleCommentLikeFunc(ctx, commentID)
	}
	return nil, nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var testActor = domain.UserSummary{ID: "u-1", Username: "alice", DisplayName: "Alice"}

func newTestStore(svc CommentService) *Store {
	return New(Config{
		PostID:   "post-1",
		Actor:    testActor,
		PageSize: 2,
		Clock:    func() time.Time { return fixedNow },
	}, svc, nil, nil)
}

func comment(id string, replies ...*domain.Comment) *domain.Comment {
	c := &domain.Comment{
		ID:           id,
		PostID:       "post-1",
		Content:      "content " + id,
		Author:       domain.UserSummary{ID: "u-2", Username: "bob"},
		CreatedAt:    fixedNow.Add(-time.Hour),
		Replies:      []*domain.Comment{},
		RepliesCount: len(replies),
	}
	for _, r := range replies {
		r.ParentID = domain.StringPtr(id)
		c.Replies = append(c.Replies, r)
	}
	return c
}

func ids(comments []*domain.Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.ID)
	}
	return out
}

// gate blocks a mock call until released
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 8), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

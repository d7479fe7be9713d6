package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/dto"
)

// MockCommentService is a mock implementation of service.CommentService
type MockCommentService struct {
	ListCommentsFunc  func(ctx context.Context, viewerID uuid.UUID, postID string, page, limit int) (*dto.CommentListResponse, error)
	CreateCommentFunc func(ctx context.Context, userID uuid.UUID, postID string, req *dto.CreateCommentRequest) (*domain.Comment, error)
	UpdateCommentFunc func(ctx context.Context, userID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*domain.Comment, error)
	DeleteCommentFunc func(ctx context.Context, userID, commentID uuid.UUID) error
	ToggleLikeFunc    func(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error)
}

func (m *MockCommentService) ListComments(ctx context.Context, viewerID uuid.UUID, postID string, page, limit int) (*dto.CommentListResponse, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, viewerID, postID, page, limit)
	}
	return &dto.CommentListResponse{Comments: []*domain.Comment{}, Page: page, Limit: limit}, nil
}

func (m *MockCommentService) CreateComment(ctx context.Context, userID uuid.UUID, postID string, req *dto.CreateCommentRequest) (*domain.Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, userID, postID, req)
	}
	return nil, nil
}

func (m *MockCommentService) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*domain.Comment, error) {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, userID, commentID, req)
	}
	return nil, nil
}

func (m *MockCommentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(ctx, userID, commentID)
	}
	return nil
}

func (m *MockCommentService) ToggleLike(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error) {
	if m.ToggleLikeFunc != nil {
		return m.ToggleLikeFunc(ctx, userID, commentID)
	}
	return nil, nil
}

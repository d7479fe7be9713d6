package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
)

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc                  func(ctx context.Context, comment *domain.CommentRecord) error
	FindByIDFunc                func(ctx context.Context, id uuid.UUID) (*domain.CommentRecord, error)
	FindRootsByPostFunc         func(ctx context.Context, postID string, limit, offset int) ([]*domain.CommentRecord, error)
	FindRepliesFunc             func(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.CommentRecord, error)
	UpdateFunc                  func(ctx context.Context, comment *domain.CommentRecord) error
	DeleteFunc                  func(ctx context.Context, id uuid.UUID) error
	CountChildrenFunc           func(ctx context.Context, id uuid.UUID) (int64, error)
	ToggleLikeFunc              func(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error)
	FindLikedIDsFunc            func(ctx context.Context, userID uuid.UUID, commentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	FindChildlessTombstonesFunc func(ctx context.Context, limit int) ([]uuid.UUID, error)
	DeleteBatchFunc             func(ctx context.Context, ids []uuid.UUID) (int64, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.CommentRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CommentRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindRootsByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.CommentRecord, error) {
	if m.FindRootsByPostFunc != nil {
		return m.FindRootsByPostFunc(ctx, postID, limit, offset)
	}
	return []*domain.CommentRecord{}, nil
}

func (m *MockCommentRepository) FindReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.CommentRecord, error) {
	if m.FindRepliesFunc != nil {
		return m.FindRepliesFunc(ctx, parentIDs)
	}
	return []*domain.CommentRecord{}, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.CommentRecord) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCommentRepository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.CountChildrenFunc != nil {
		return m.CountChildrenFunc(ctx, id)
	}
	return 0, nil
}

func (m *MockCommentRepository) ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error) {
	if m.ToggleLikeFunc != nil {
		return m.ToggleLikeFunc(ctx, commentID, userID)
	}
	return false, 0, nil
}

func (m *MockCommentRepository) FindLikedIDs(ctx context.Context, userID uuid.UUID, commentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if m.FindLikedIDsFunc != nil {
		return m.FindLikedIDsFunc(ctx, userID, commentIDs)
	}
	return map[uuid.UUID]bool{}, nil
}

func (m *MockCommentRepository) FindChildlessTombstones(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if m.FindChildlessTombstonesFunc != nil {
		return m.FindChildlessTombstonesFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockCommentRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if m.DeleteBatchFunc != nil {
		return m.DeleteBatchFunc(ctx, ids)
	}
	return 0, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	EnsureUserFunc func(ctx context.Context, id uuid.UUID, username string) (*domain.UserRecord, error)
	FindByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.UserRecord, error)
}

func (m *MockUserRepository) EnsureUser(ctx context.Context, id uuid.UUID, username string) (*domain.UserRecord, error) {
	if m.EnsureUserFunc != nil {
		return m.EnsureUserFunc(ctx, id, username)
	}
	return &domain.UserRecord{ID: id, Username: username}, nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UserRecord, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

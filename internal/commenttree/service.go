package commenttree

import (
	"context"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/dto"
)

// CommentService is the remote collaborator the store persists through
type CommentService interface {
	ListComments(ctx context.Context, postID string, page, limit int) (*dto.CommentListResponse, error)
	CreateComment(ctx context.Context, postID string, req dto.CreateCommentRequest) (*domain.Comment, error)
	UpdateComment(ctx context.Context, commentID string, req dto.UpdateCommentRequest) (*domain.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	ToggleCommentLike(ctx context.Context, commentID string) (*dto.LikeResponse, error)
}

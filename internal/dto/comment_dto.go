package dto

import "github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"

// CreateCommentRequest represents the request to create a comment or a reply
type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,min=1"`
	ParentID *string `json:"parentId,omitempty"`
}

// UpdateCommentRequest represents the request to edit a comment
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// CommentListResponse is one page of root comments with their loaded replies
type CommentListResponse struct {
	Comments    []*domain.Comment `json:"comments"`
	HasNextPage bool              `json:"hasNextPage"`
	Page        int               `json:"page"`
	Limit       int               `json:"limit"`
}

// LikeResponse is the viewer's like state after a toggle
type LikeResponse struct {
	IsLiked    bool `json:"isLiked"`
	LikesCount int  `json:"likesCount"`
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/dto"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/middleware"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/response"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
	logger         *zap.Logger
}

func NewCommentHandler(commentService service.CommentService, logger *zap.Logger) *CommentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// ListComments returns one page of root comments for a post.
// GET /posts/:postId/comments?page=&limit=
func (h *CommentHandler) ListComments(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid page")
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid limit")
		return
	}

	// anonymous viewers see every comment as not liked
	viewerID, _ := middleware.ViewerID(c)

	result, err := h.commentService.ListComments(c.Request.Context(), viewerID, c.Param("postId"), page, limit)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// CreateComment adds a root comment or, with parentId, a reply.
// POST /posts/:postId/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), userID, c.Param("postId"), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// UpdateComment edits the content of the viewer's own comment.
// PUT /comments/:commentId
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), userID, commentID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// DeleteComment removes the viewer's own comment.
// DELETE /comments/:commentId
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleLike flips the viewer's like on a comment.
// POST /comments/:commentId/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	userID, ok := requireViewer(c)
	if !ok {
		return
	}
	commentID, ok := commentIDParam(c)
	if !ok {
		return
	}

	result, err := h.commentService.ToggleLike(c.Request.Context(), userID, commentID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

func requireViewer(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.ViewerID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, middleware.UserIDHeader+" header is required")
		return uuid.Nil, false
	}
	return userID, true
}

func commentIDParam(c *gin.Context) (uuid.UUID, bool) {
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return uuid.Nil, false
	}
	return commentID, true
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/dto"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/metrics"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/repository"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/response"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// CommentService defines the interface for comment business logic
type CommentService interface {
	ListComments(ctx context.Context, viewerID uuid.UUID, postID string, page, limit int) (*dto.CommentListResponse, error)
	CreateComment(ctx context.Context, userID uuid.UUID, postID string, req *dto.CreateCommentRequest) (*domain.Comment, error)
	UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*domain.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
	ToggleLike(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error)
}

// Config holds the thread limits enforced by the backend
type Config struct {
	MaxDepth           int
	MaxContentLength   int
	DeletedPlaceholder string
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	cfg         Config
	metrics     *metrics.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	cfg Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &commentServiceImpl{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		cfg:         cfg,
		metrics:     m,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListComments returns one page of root comments with their replies nested
// up to the configured depth
func (s *commentServiceImpl) ListComments(ctx context.Context, viewerID uuid.UUID, postID string, page, limit int) (*dto.CommentListResponse, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Post ID is required", "")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	// one extra row tells whether another page exists
	roots, err := s.commentRepo.FindRootsByPost(ctx, postID, limit+1, (page-1)*limit)
	if err != nil {
		s.logger.Error("Failed to fetch root comments", zap.String("post_id", postID), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comments", err.Error())
	}
	hasNext := len(roots) > limit
	if hasNext {
		roots = roots[:limit]
	}

	nodes := make(map[uuid.UUID]*domain.Comment, len(roots))
	allIDs := make([]uuid.UUID, 0, len(roots))
	result := make([]*domain.Comment, 0, len(roots))
	level := make([]uuid.UUID, 0, len(roots))
	for _, r := range roots {
		c := r.ToComment()
		nodes[r.ID] = c
		allIDs = append(allIDs, r.ID)
		level = append(level, r.ID)
		result = append(result, c)
	}

	for depth := 1; depth < s.maxDepth() && len(level) > 0; depth++ {
		replies, err := s.commentRepo.FindReplies(ctx, level)
		if err != nil {
			s.logger.Error("Failed to fetch replies", zap.String("post_id", postID), zap.Error(err))
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comments", err.Error())
		}
		level = level[:0]
		for _, r := range replies {
			parent := nodes[*r.ParentID]
			c := r.ToComment()
			parent.Replies = append(parent.Replies, c)
			parent.RepliesCount++
			nodes[r.ID] = c
			allIDs = append(allIDs, r.ID)
			level = append(level, r.ID)
		}
	}

	// the deepest loaded level still reports how many replies it has
	for _, id := range level {
		count, err := s.commentRepo.CountChildren(ctx, id)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comments", err.Error())
		}
		nodes[id].RepliesCount = int(count)
	}

	liked, err := s.commentRepo.FindLikedIDs(ctx, viewerID, allIDs)
	if err != nil {
		s.logger.Error("Failed to fetch like state", zap.String("post_id", postID), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comments", err.Error())
	}
	for id := range liked {
		if c, ok := nodes[id]; ok {
			c.IsLiked = true
		}
	}

	return &dto.CommentListResponse{
		Comments:    result,
		HasNextPage: hasNext,
		Page:        page,
		Limit:       limit,
	}, nil
}

// CreateComment creates a root comment or a reply
func (s *commentServiceImpl) CreateComment(ctx context.Context, userID uuid.UUID, postID string, req *dto.CreateCommentRequest) (*domain.Comment, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, response.NewAppError(response.ErrCodeValidation, "Post ID is required", "")
	}
	content, appErr := s.validateContent(req.Content)
	if appErr != nil {
		return nil, appErr
	}

	record := &domain.CommentRecord{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}

	if req.ParentID != nil && *req.ParentID != "" {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid parent comment ID", err.Error())
		}
		parent, appErr := s.findComment(ctx, parentID)
		if appErr != nil {
			return nil, appErr
		}
		if parent.PostID != postID {
			return nil, response.NewAppError(response.ErrCodeValidation, "Parent comment belongs to another post", "")
		}
		if parent.IsDeleted {
			return nil, response.NewAppError(response.ErrCodeValidation, "Cannot reply to a deleted comment", "")
		}
		depth, appErr := s.depthOf(ctx, parent)
		if appErr != nil {
			return nil, appErr
		}
		if depth+1 >= s.maxDepth() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Maximum reply depth reached", "")
		}
		record.ParentID = &parent.ID
	}

	if _, err := s.userRepo.EnsureUser(ctx, userID, ""); err != nil {
		s.logger.Error("Failed to ensure author", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	if err := s.commentRepo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to create comment", zap.String("post_id", postID), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	created, err := s.commentRepo.FindByID(ctx, record.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch created comment", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementCommentCreated()
	}
	s.logger.Info("Comment created",
		zap.String("comment_id", created.ID.String()),
		zap.String("post_id", postID),
		zap.Bool("is_reply", created.ParentID != nil),
	)
	return created.ToComment(), nil
}

// UpdateComment replaces the content of a comment owned by userID
func (s *commentServiceImpl) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*domain.Comment, error) {
	content, appErr := s.validateContent(req.Content)
	if appErr != nil {
		return nil, appErr
	}

	comment, appErr := s.findComment(ctx, commentID)
	if appErr != nil {
		return nil, appErr
	}
	if comment.IsDeleted {
		return nil, response.NewAppError(response.ErrCodeValidation, "Cannot edit a deleted comment", "")
	}
	if comment.AuthorID != userID {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Only the author can edit this comment", "")
	}

	now := s.now()
	comment.Content = content
	comment.IsEdited = true
	comment.EditedAt = &now

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		s.logger.Error("Failed to update comment", zap.String("comment_id", commentID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update comment", err.Error())
	}

	return s.withViewerState(ctx, userID, comment)
}

// DeleteComment tombstones a comment that has replies and removes it otherwise
func (s *commentServiceImpl) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, appErr := s.findComment(ctx, commentID)
	if appErr != nil {
		return appErr
	}
	if comment.IsDeleted {
		return response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
	}
	if comment.AuthorID != userID {
		return response.NewAppError(response.ErrCodeUnauthorized, "Only the author can delete this comment", "")
	}

	children, err := s.commentRepo.CountChildren(ctx, commentID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
	}

	if children > 0 {
		comment.IsDeleted = true
		comment.Content = s.placeholder()
		if err := s.commentRepo.Update(ctx, comment); err != nil {
			s.logger.Error("Failed to tombstone comment", zap.String("comment_id", commentID.String()), zap.Error(err))
			return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
		}
		s.logger.Info("Comment tombstoned",
			zap.String("comment_id", commentID.String()),
			zap.Int64("replies", children),
		)
		return nil
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		s.logger.Error("Failed to delete comment", zap.String("comment_id", commentID.String()), zap.Error(err))
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
	}
	s.logger.Info("Comment deleted", zap.String("comment_id", commentID.String()))
	return nil
}

// ToggleLike flips userID's like on a comment
func (s *commentServiceImpl) ToggleLike(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error) {
	comment, appErr := s.findComment(ctx, commentID)
	if appErr != nil {
		return nil, appErr
	}
	if comment.IsDeleted {
		return nil, response.NewAppError(response.ErrCodeValidation, "Cannot like a deleted comment", "")
	}

	liked, count, err := s.commentRepo.ToggleLike(ctx, commentID, userID)
	if err != nil {
		s.logger.Error("Failed to toggle like", zap.String("comment_id", commentID.String()), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to toggle like", err.Error())
	}
	if s.metrics != nil {
		s.metrics.IncrementLikeToggled()
	}
	return &dto.LikeResponse{IsLiked: liked, LikesCount: count}, nil
}

func (s *commentServiceImpl) findComment(ctx context.Context, id uuid.UUID) (*domain.CommentRecord, *response.AppError) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch comment", err.Error())
	}
	return comment, nil
}

// depthOf walks the parent chain; roots are at depth 0
func (s *commentServiceImpl) depthOf(ctx context.Context, c *domain.CommentRecord) (int, *response.AppError) {
	depth := 0
	for c.ParentID != nil && depth <= s.maxDepth() {
		parent, appErr := s.findComment(ctx, *c.ParentID)
		if appErr != nil {
			return 0, appErr
		}
		c = parent
		depth++
	}
	return depth, nil
}

func (s *commentServiceImpl) withViewerState(ctx context.Context, viewerID uuid.UUID, record *domain.CommentRecord) (*domain.Comment, error) {
	c := record.ToComment()
	liked, err := s.commentRepo.FindLikedIDs(ctx, viewerID, []uuid.UUID{record.ID})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch like state", err.Error())
	}
	c.IsLiked = liked[record.ID]
	count, err := s.commentRepo.CountChildren(ctx, record.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to count replies", err.Error())
	}
	c.RepliesCount = int(count)
	return c, nil
}

func (s *commentServiceImpl) validateContent(content string) (string, *response.AppError) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", response.NewAppError(response.ErrCodeValidation, "Comment content is required", "")
	}
	if limit := s.cfg.MaxContentLength; limit > 0 && utf8.RuneCountInString(trimmed) > limit {
		return "", response.NewAppError(response.ErrCodeValidation, "Comment content is too long", "")
	}
	return trimmed, nil
}

func (s *commentServiceImpl) maxDepth() int {
	if s.cfg.MaxDepth <= 0 {
		return 5
	}
	return s.cfg.MaxDepth
}

func (s *commentServiceImpl) placeholder() string {
	if s.cfg.DeletedPlaceholder == "" {
		return "[This comment has been deleted]"
	}
	return s.cfg.DeletedPlaceholder
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.CommentRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.CommentRecord, error)
	FindRootsByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.CommentRecord, error)
	FindReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.CommentRecord, error)
	Update(ctx context.Context, comment *domain.CommentRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)
	ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (liked bool, likesCount int, err error)
	FindLikedIDs(ctx context.Context, userID uuid.UUID, commentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	FindChildlessTombstones(ctx context.Context, limit int) ([]uuid.UUID, error)
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create creates a new comment
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.CommentRecord) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// FindByID finds a comment by its ID with its author
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.CommentRecord, error) {
	var comment domain.CommentRecord
	if err := r.db.WithContext(ctx).
		Preload("Author").
		First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindRootsByPost returns one page of root comments, newest first
func (r *commentRepositoryImpl) FindRootsByPost(ctx context.Context, postID string, limit, offset int) ([]*domain.CommentRecord, error) {
	var comments []*domain.CommentRecord
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindReplies returns the direct replies of the given comments in chronological order
func (r *commentRepositoryImpl) FindReplies(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.CommentRecord, error) {
	if len(parentIDs) == 0 {
		return []*domain.CommentRecord{}, nil
	}

	var comments []*domain.CommentRecord
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Update saves the mutable fields of a comment
func (r *commentRepositoryImpl) Update(ctx context.Context, comment *domain.CommentRecord) error {
	return r.db.WithContext(ctx).
		Model(comment).
		Select("content", "is_edited", "edited_at", "is_deleted", "updated_at").
		Updates(comment).Error
}

// Delete hard deletes a comment and its likes
func (r *commentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&domain.CommentLikeRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.CommentRecord{}, "id = ?", id).Error
	})
}

// CountChildren counts the direct replies of a comment
func (r *commentRepositoryImpl) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.CommentRecord{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ToggleLike adds or removes the user's like and returns the resulting state
func (r *commentRepositoryImpl) ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (bool, int, error) {
	var liked bool
	var likesCount int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.CommentLikeRecord
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&existing).Error

		counter := tx.Model(&domain.CommentRecord{}).Where("id = ?", commentID)
		switch {
		case err == nil:
			if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&domain.CommentLikeRecord{}).Error; err != nil {
				return err
			}
			if err := counter.UpdateColumn("likes_count",
				gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := &domain.CommentLikeRecord{CommentID: commentID, UserID: userID}
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			if err := counter.UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}

		var comment domain.CommentRecord
		if err := tx.Select("likes_count").First(&comment, "id = ?", commentID).Error; err != nil {
			return err
		}
		likesCount = comment.LikesCount
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likesCount, nil
}

// FindLikedIDs reports which of commentIDs the user has liked
func (r *commentRepositoryImpl) FindLikedIDs(ctx context.Context, userID uuid.UUID, commentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool)
	if len(commentIDs) == 0 || userID == uuid.Nil {
		return liked, nil
	}

	var likes []domain.CommentLikeRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		liked[l.CommentID] = true
	}
	return liked, nil
}

// FindChildlessTombstones returns deleted comments that no longer have replies
func (r *commentRepositoryImpl) FindChildlessTombstones(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&domain.CommentRecord{}).
		Where("is_deleted = ?", true).
		Where("NOT EXISTS (SELECT 1 FROM comments AS children WHERE children.parent_id = comments.id)").
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteBatch hard deletes comments and their likes in one transaction
func (r *commentRepositoryImpl) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN ?", ids).Delete(&domain.CommentLikeRecord{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&domain.CommentRecord{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

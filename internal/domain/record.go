package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains common fields for persisted entities
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not set one. Postgres and
// sqlite both go through this hook so neither relies on a column default.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// CommentRecord is the persisted form of a comment in the reference backend
type CommentRecord struct {
	BaseModel
	PostID     string     `gorm:"type:varchar(64);not null;index:idx_comments_post_id" json:"post_id"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_comments_author_id" json:"author_id"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index:idx_comments_parent_id" json:"parent_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	IsEdited   bool       `gorm:"default:false" json:"is_edited"`
	EditedAt   *time.Time `json:"edited_at"`
	IsDeleted  bool       `gorm:"default:false;index:idx_comments_is_deleted" json:"is_deleted"`
	LikesCount int        `gorm:"default:0" json:"likes_count"`
	Author     UserRecord `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for CommentRecord
func (CommentRecord) TableName() string {
	return "comments"
}

// CommentLikeRecord links a user to a comment they liked
type CommentLikeRecord struct {
	CommentID uuid.UUID `gorm:"type:uuid;primaryKey" json:"comment_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for CommentLikeRecord
func (CommentLikeRecord) TableName() string {
	return "comment_likes"
}

// UserRecord is the minimal author profile kept by the reference backend
type UserRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(64);not null" json:"username"`
	DisplayName string    `gorm:"type:varchar(128)" json:"display_name"`
	AvatarURL   string    `gorm:"type:varchar(512)" json:"avatar_url"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for UserRecord
func (UserRecord) TableName() string {
	return "users"
}

// Summary converts the record into the author reference used by comments
func (u UserRecord) Summary() UserSummary {
	display := u.DisplayName
	if display == "" {
		display = u.Username
	}
	return UserSummary{
		ID:          u.ID.String(),
		Username:    u.Username,
		DisplayName: display,
		AvatarURL:   u.AvatarURL,
	}
}

// ToComment converts a persisted record into a comment node without replies
func (r *CommentRecord) ToComment() *Comment {
	c := &Comment{
		ID:         r.ID.String(),
		PostID:     r.PostID,
		Content:    r.Content,
		Author:     r.Author.Summary(),
		CreatedAt:  r.CreatedAt,
		LikesCount: r.LikesCount,
		IsEdited:   r.IsEdited,
		IsDeleted:  r.IsDeleted,
		Replies:    []*Comment{},
	}
	if r.Author.ID == uuid.Nil {
		c.Author.ID = r.AuthorID.String()
	}
	if r.EditedAt != nil {
		t := *r.EditedAt
		c.EditedAt = &t
	}
	if r.ParentID != nil {
		p := r.ParentID.String()
		c.ParentID = &p
	}
	return c
}

package domain

import (
	"strings"
	"time"
)

// TempIDPrefix marks identifiers generated client-side for comments that the
// server has not confirmed yet.
const TempIDPrefix = "temp-"

// UserSummary is the author reference embedded in every comment
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Comment is a node of a comment thread. Replies are owned by their parent.
type Comment struct {
	ID           string      `json:"id"`
	PostID       string      `json:"postId,omitempty"`
	Content      string      `json:"content"`
	Author       UserSummary `json:"author"`
	CreatedAt    time.Time   `json:"createdAt"`
	LikesCount   int         `json:"likesCount"`
	IsLiked      bool        `json:"isLiked"`
	IsEdited     bool        `json:"isEdited"`
	EditedAt     *time.Time  `json:"editedAt,omitempty"`
	IsDeleted    bool        `json:"isDeleted"`
	ParentID     *string     `json:"parentId,omitempty"`
	Replies      []*Comment  `json:"replies"`
	RepliesCount int         `json:"repliesCount"`
}

// IsTemporary reports whether the comment still carries a client-generated id
func (c *Comment) IsTemporary() bool {
	return IsTempID(c.ID)
}

// IsRoot reports whether the comment has no parent
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}

// Clone returns a deep copy of the comment and its whole reply subtree
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}
	cp := *c
	if c.EditedAt != nil {
		t := *c.EditedAt
		cp.EditedAt = &t
	}
	if c.ParentID != nil {
		p := *c.ParentID
		cp.ParentID = &p
	}
	cp.Replies = CloneComments(c.Replies)
	return &cp
}

// CloneComments deep-copies a sequence of comments. The result is never nil.
func CloneComments(comments []*Comment) []*Comment {
	out := make([]*Comment, 0, len(comments))
	for _, c := range comments {
		if c == nil {
			continue
		}
		out = append(out, c.Clone())
	}
	return out
}

// IsTempID reports whether id was generated for an optimistic comment
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

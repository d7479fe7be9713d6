package commenttree

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/dto"
)

// AddComment inserts a root comment at the head of the thread and persists it.
// On success the temporary node is replaced in place by the server's comment.
func (s *Store) AddComment(ctx context.Context, content string) (*domain.Comment, error) {
	return s.add(ctx, OpAdd, "", content)
}

// ReplyToComment appends a reply to parentID and persists it
func (s *Store) ReplyToComment(ctx context.Context, parentID, content string) (*domain.Comment, error) {
	return s.add(ctx, OpReply, parentID, content)
}

func (s *Store) validateContent(kind OperationKind, id, content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", &ValidationError{Op: kind, CommentID: id, Err: ErrEmptyContent}
	}
	if utf8.RuneCountInString(trimmed) > s.cfg.MaxContentLength {
		return "", &ValidationError{Op: kind, CommentID: id, Err: ErrContentTooLong}
	}
	return trimmed, nil
}

// target validates that id addresses a confirmed, live node. Must be called
// with s.mu held.
func (s *Store) target(kind OperationKind, id string) (location, error) {
	loc, ok := locate(s.roots, id)
	if !ok {
		return location{}, &ValidationError{Op: kind, CommentID: id, Err: ErrCommentNotFound}
	}
	if loc.node.IsTemporary() {
		return location{}, &ConflictError{Op: kind, CommentID: id, Err: ErrCommentPending}
	}
	if loc.node.IsDeleted {
		return location{}, &ValidationError{Op: kind, CommentID: id, Err: ErrCommentDeleted}
	}
	return loc, nil
}

// locateNode finds id only if it is still the same node the operation mutated.
// A reload swaps nodes for fresh ones; those are left alone.
func (s *Store) locateNode(id string, node *domain.Comment) (location, bool) {
	loc, ok := locate(s.roots, id)
	if !ok || loc.node != node {
		return location{}, false
	}
	return loc, true
}

func (s *Store) add(ctx context.Context, kind OperationKind, parentID, content string) (*domain.Comment, error) {
	trimmed, err := s.validateContent(kind, parentID, content)
	if err != nil {
		return nil, s.reject(kind, err)
	}

	s.mu.Lock()
	var parent *domain.Comment
	if parentID != "" {
		loc, err := s.target(kind, parentID)
		if err != nil {
			s.mu.Unlock()
			return nil, s.reject(kind, err)
		}
		parent = loc.node
	}

	now := s.cfg.Clock()
	tempID := s.cfg.TempID(now)
	op, err := s.begin(kind, tempID, true)
	if err != nil {
		s.mu.Unlock()
		return nil, s.reject(kind, err)
	}

	temp := &domain.Comment{
		ID:        tempID,
		PostID:    s.cfg.PostID,
		Content:   trimmed,
		Author:    s.cfg.Actor,
		CreatedAt: now,
		ParentID:  domain.StringPtr(parentID),
		Replies:   []*domain.Comment{},
	}
	if parent == nil {
		s.roots = insertAt(s.roots, 0, temp)
	} else {
		parent.Replies = append(parent.Replies, temp)
		parent.RepliesCount++
	}
	s.refreshLoadedGauge()
	s.mu.Unlock()

	created, err := s.service.CreateComment(ctx, s.cfg.PostID, dto.CreateCommentRequest{
		Content:  trimmed,
		ParentID: domain.StringPtr(parentID),
	})
	if err == nil && created == nil {
		err = errNoRemoteResult
	}

	s.mu.Lock()
	loc, attached := s.locateNode(tempID, temp)

	if err != nil {
		if attached {
			s.detachTemp(loc)
		}
		rerr := &RemoteError{Op: kind, CommentID: parentID, Content: content, Err: err}
		outcome := s.settle(op, StateRolledBack, !attached, tempID, rerr)
		s.mu.Unlock()
		s.emit(outcome)
		return nil, rerr
	}

	confirmed := created.Clone()
	if confirmed.ParentID == nil && parentID != "" {
		confirmed.ParentID = domain.StringPtr(parentID)
	}
	if confirmed.PostID == "" {
		confirmed.PostID = s.cfg.PostID
	}

	if attached {
		if _, dup := locate(s.roots, confirmed.ID); dup {
			// a page load already brought the confirmed comment in
			s.detachTemp(loc)
		} else if loc.parent == nil {
			s.roots[loc.index] = confirmed
		} else {
			loc.parent.Replies[loc.index] = confirmed
		}
	}
	outcome := s.settle(op, StateCommitted, !attached, confirmed.ID, nil)
	result := confirmed.Clone()
	s.mu.Unlock()
	s.emit(outcome)
	return result, nil
}

// detachTemp removes an optimistic node and undoes its parent's count bump
func (s *Store) detachTemp(loc location) {
	if loc.parent == nil {
		s.roots = removeAt(s.roots, loc.index)
		return
	}
	loc.parent.Replies = removeAt(loc.parent.Replies, loc.index)
	if loc.parent.RepliesCount > 0 {
		loc.parent.RepliesCount--
	}
}

// ToggleLike flips the viewer's like on id. A failed toggle reverts only its
// own delta, so concurrent toggles on the same comment each undo themselves.
func (s *Store) ToggleLike(ctx context.Context, id string) (*dto.LikeResponse, error) {
	s.mu.Lock()
	loc, err := s.target(OpLike, id)
	if err != nil {
		s.mu.Unlock()
		return nil, s.reject(OpLike, err)
	}
	op, _ := s.begin(OpLike, id, false)

	node := loc.node
	node.IsLiked = !node.IsLiked
	delta := 1
	if !node.IsLiked {
		delta = -1
		if node.LikesCount == 0 {
			delta = 0
		}
	}
	node.LikesCount += delta
	s.pendingLikes[id]++
	s.mu.Unlock()

	res, err := s.service.ToggleCommentLike(ctx, id)
	if err == nil && res == nil {
		err = errNoRemoteResult
	}

	s.mu.Lock()
	s.pendingLikes[id]--
	if s.pendingLikes[id] <= 0 {
		delete(s.pendingLikes, id)
	}
	_, attached := s.locateNode(id, node)

	if err != nil {
		if attached {
			node.IsLiked = !node.IsLiked
			node.LikesCount -= delta
			if node.LikesCount < 0 {
				node.LikesCount = 0
			}
		}
		rerr := &RemoteError{Op: OpLike, CommentID: id, Err: err}
		outcome := s.settle(op, StateRolledBack, !attached, id, rerr)
		s.mu.Unlock()
		s.emit(outcome)
		return nil, rerr
	}

	if attached && s.pendingLikes[id] == 0 {
		node.IsLiked = res.IsLiked
		node.LikesCount = res.LikesCount
		if node.LikesCount < 0 {
			node.LikesCount = 0
		}
	}
	outcome := s.settle(op, StateCommitted, !attached, id, nil)
	s.mu.Unlock()
	s.emit(outcome)

	if s.metrics != nil {
		s.metrics.IncrementLikeToggled()
	}
	return &dto.LikeResponse{IsLiked: res.IsLiked, LikesCount: res.LikesCount}, nil
}

type editSnapshot struct {
	content  string
	isEdited bool
	editedAt *time.Time
}

// EditComment replaces the content of id. A failed edit restores the prior
// content and edit markers exactly.
func (s *Store) EditComment(ctx context.Context, id, content string) (*domain.Comment, error) {
	trimmed, err := s.validateContent(OpEdit, id, content)
	if err != nil {
		return nil, s.reject(OpEdit, err)
	}

	s.mu.Lock()
	loc, err := s.target(OpEdit, id)
	if err != nil {
		s.mu.Unlock()
		return nil, s.reject(OpEdit, err)
	}
	op, err := s.begin(OpEdit, id, true)
	if err != nil {
		s.mu.Unlock()
		return nil, s.reject(OpEdit, err)
	}

	node := loc.node
	snap := editSnapshot{content: node.Content, isEdited: node.IsEdited, editedAt: node.EditedAt}
	now := s.cfg.Clock()
	node.Content = trimmed
	node.IsEdited = true
	node.EditedAt = &now
	s.mu.Unlock()

	updated, err := s.service.UpdateComment(ctx, id, dto.UpdateCommentRequest{Content: trimmed})

	s.mu.Lock()
	_, attached := s.locateNode(id, node)

	if err != nil {
		if attached {
			node.Content = snap.content
			node.IsEdited = snap.isEdited
			node.EditedAt = snap.editedAt
		}
		rerr := &RemoteError{Op: OpEdit, CommentID: id, Content: content, Err: err}
		outcome := s.settle(op, StateRolledBack, !attached, id, rerr)
		s.mu.Unlock()
		s.emit(outcome)
		return nil, rerr
	}

	if attached && updated != nil {
		node.Content = updated.Content
		node.IsEdited = updated.IsEdited
		if updated.EditedAt != nil {
			t := *updated.EditedAt
			node.EditedAt = &t
		}
	}
	var result *domain.Comment
	switch {
	case attached:
		result = node.Clone()
	case updated != nil:
		result = updated.Clone()
	default:
		result = node.Clone()
	}
	outcome := s.settle(op, StateCommitted, !attached, id, nil)
	s.mu.Unlock()
	s.emit(outcome)
	return result, nil
}

// DeleteComment removes id from the thread. The delete policy decides between
// a tombstone that keeps the replies and a splice out of the sibling sequence.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	loc, err := s.target(OpDelete, id)
	if err != nil {
		s.mu.Unlock()
		return s.reject(OpDelete, err)
	}
	if hasPendingReply(loc.node) {
		s.mu.Unlock()
		return s.reject(OpDelete, &ConflictError{Op: OpDelete, CommentID: id, Err: ErrCommentPending})
	}
	op, err := s.begin(OpDelete, id, true)
	if err != nil {
		s.mu.Unlock()
		return s.reject(OpDelete, err)
	}

	var undo, stillAttached func() bool
	switch s.cfg.DeletePolicy(loc.node) {
	case DeleteActionRemove:
		undo = s.splice(loc)
		stillAttached = func() bool { return true }
	default:
		undo = s.tombstone(loc.node)
		node := loc.node
		stillAttached = func() bool {
			_, ok := s.locateNode(id, node)
			return ok
		}
	}
	s.refreshLoadedGauge()
	s.mu.Unlock()

	err = s.service.DeleteComment(ctx, id)

	s.mu.Lock()
	if err != nil {
		restored := undo()
		rerr := &RemoteError{Op: OpDelete, CommentID: id, Err: err}
		outcome := s.settle(op, StateRolledBack, !restored, id, rerr)
		s.mu.Unlock()
		s.emit(outcome)
		return rerr
	}
	outcome := s.settle(op, StateCommitted, !stillAttached(), id, nil)
	s.mu.Unlock()
	s.emit(outcome)
	return nil
}

// tombstone marks node deleted and returns its undo
func (s *Store) tombstone(node *domain.Comment) func() bool {
	prevContent, prevDeleted := node.Content, node.IsDeleted
	node.IsDeleted = true
	node.Content = s.cfg.DeletedPlaceholder
	return func() bool {
		if _, ok := s.locateNode(node.ID, node); !ok {
			return false
		}
		node.Content = prevContent
		node.IsDeleted = prevDeleted
		return true
	}
}

// splice cuts the node at loc out of the tree and returns its undo, which puts
// the node back between the same neighbours under the same parent
func (s *Store) splice(loc location) func() bool {
	node, parent, index := loc.node, loc.parent, loc.index
	decremented := false
	var sb siblings
	if parent == nil {
		sb = captureSiblings(s.roots, index)
		s.roots = removeAt(s.roots, index)
	} else {
		sb = captureSiblings(parent.Replies, index)
		parent.Replies = removeAt(parent.Replies, index)
		if parent.RepliesCount > 0 {
			parent.RepliesCount--
			decremented = true
		}
	}
	return func() bool {
		if _, dup := locate(s.roots, node.ID); dup {
			return false
		}
		if parent == nil {
			s.roots = insertAt(s.roots, sb.reinsertIndex(s.roots), node)
			return true
		}
		if _, ok := s.locateNode(parent.ID, parent); !ok {
			return false
		}
		parent.Replies = insertAt(parent.Replies, sb.reinsertIndex(parent.Replies), node)
		if decremented {
			parent.RepliesCount++
		}
		return true
	}
}

// hasPendingReply reports whether c has a reply the server has not confirmed yet
func hasPendingReply(c *domain.Comment) bool {
	for _, r := range c.Replies {
		if r.IsTemporary() {
			return true
		}
	}
	return false
}

package commenttree

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyContent      = errors.New("comment content is empty")
	ErrContentTooLong    = errors.New("comment content exceeds the length limit")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrCommentDeleted    = errors.New("comment is deleted")
	ErrCommentPending    = errors.New("comment is not confirmed by the server yet")
	ErrOperationInFlight = errors.New("another operation on this comment is in flight")
	errNoRemoteResult    = errors.New("comment service returned an empty result")
)

// ValidationError rejects an operation before any local or remote change
type ValidationError struct {
	Op        OperationKind
	CommentID string
	Err       error
}

func (e *ValidationError) Error() string {
	if e.CommentID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s comment %s: %v", e.Op, e.CommentID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ConflictError rejects an operation that would overlap another pending one
type ConflictError struct {
	Op        OperationKind
	CommentID string
	Err       error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s comment %s: %v", e.Op, e.CommentID, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// RemoteError reports a collaborator failure after the optimistic change was
// rolled back. Content holds the caller's original input for add, reply and edit.
type RemoteError struct {
	Op        OperationKind
	CommentID string
	Content   string
	Err       error
}

func (e *RemoteError) Error() string {
	if e.CommentID == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s comment %s failed: %v", e.Op, e.CommentID, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

package commenttree

import "github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"

// DeleteAction is how a delete is applied to the local tree
type DeleteAction int

const (
	// DeleteActionTombstone keeps the node and its replies but marks it deleted
	DeleteActionTombstone DeleteAction = iota
	// DeleteActionRemove splices the node out of its sibling sequence
	DeleteActionRemove
)

// DeletePolicy decides the local shape of a delete for a node
type DeletePolicy func(c *domain.Comment) DeleteAction

// DefaultDeletePolicy tombstones a comment that has replies, loaded or not,
// and removes it otherwise
func DefaultDeletePolicy(c *domain.Comment) DeleteAction {
	if len(c.Replies) > 0 || c.RepliesCount > 0 {
		return DeleteActionTombstone
	}
	return DeleteActionRemove
}

package commenttree

import "time"

// OperationKind names a store operation
type OperationKind string

const (
	OpAdd    OperationKind = "add"
	OpReply  OperationKind = "reply"
	OpLike   OperationKind = "like"
	OpEdit   OperationKind = "edit"
	OpDelete OperationKind = "delete"
	OpLoad   OperationKind = "load"
)

// OperationState is the lifecycle position of an optimistic operation
type OperationState int

const (
	StatePending OperationState = iota
	StateCommitted
	StateRolledBack
)

func (s OperationState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// loadKey guards pagination in the in-flight map; comment ids never start with '#'
const loadKey = "#load"

// operation tracks one mutation from its optimistic apply to its settle
type operation struct {
	kind    OperationKind
	target  string
	guarded bool
	state   OperationState
	started time.Time
}

// Outcome is delivered to subscribers once an operation settles.
// Detached is set when the target left the tree before the remote call
// returned, in which case the commit or rollback was a no-op.
type Outcome struct {
	Kind      OperationKind
	CommentID string
	TempID    string
	State     OperationState
	Detached  bool
	Err       error
	Duration  time.Duration
}

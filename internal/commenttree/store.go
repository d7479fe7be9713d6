package commenttree

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/metrics"
)

const (
	DefaultMaxDepth           = 5
	DefaultMaxContentLength   = 1000
	DefaultPageSize           = 20
	DefaultDeletedPlaceholder = "[This comment has been deleted]"
)

// Config describes one thread and the limits applied to it
type Config struct {
	PostID string
	// Actor is the author attached to optimistic comments
	Actor              domain.UserSummary
	MaxDepth           int
	MaxContentLength   int
	PageSize           int
	DeletedPlaceholder string
	DeletePolicy       DeletePolicy
	Clock              func() time.Time
	TempID             func(now time.Time) string
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxContentLength <= 0 {
		c.MaxContentLength = DefaultMaxContentLength
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.DeletedPlaceholder == "" {
		c.DeletedPlaceholder = DefaultDeletedPlaceholder
	}
	if c.DeletePolicy == nil {
		c.DeletePolicy = DefaultDeletePolicy
	}
	if c.Clock == nil {
		c.Clock = func() time.Time { return time.Now().UTC() }
	}
	if c.TempID == nil {
		c.TempID = newTempID
	}
	return c
}

func newTempID(now time.Time) string {
	return fmt.Sprintf("%s%d-%s", domain.TempIDPrefix, now.UnixMilli(), uuid.NewString()[:8])
}

// Store owns the comment tree of one thread. Every mutation is applied to the
// tree before the remote call and committed or rolled back once it returns.
// The remote call runs without holding the lock, so a Store is safe to share
// between goroutines and readers observe the optimistic state while a call is
// outstanding.
type Store struct {
	mu sync.Mutex

	cfg     Config
	service CommentService
	metrics *metrics.Metrics
	logger  *zap.Logger

	roots        []*domain.Comment
	page         int
	hasNextPage  bool
	epoch        int
	inflight     map[string]OperationKind
	pendingLikes map[string]int
	pendingOps   int

	listeners    map[int]func(Outcome)
	nextListener int
}

// New creates a Store for cfg.PostID backed by service
func New(cfg Config, service CommentService, m *metrics.Metrics, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &Store{
		cfg:          cfg,
		service:      service,
		metrics:      m,
		logger:       logger.With(zap.String("post_id", cfg.PostID)),
		roots:        []*domain.Comment{},
		hasNextPage:  true,
		inflight:     make(map[string]OperationKind),
		pendingLikes: make(map[string]int),
		listeners:    make(map[int]func(Outcome)),
	}
}

// PostID returns the thread the store belongs to
func (s *Store) PostID() string {
	return s.cfg.PostID
}

// Comments returns a deep copy of the root sequence with all loaded replies
func (s *Store) Comments() []*domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneComments(s.roots)
}

// Find returns a copy of the comment with id
func (s *Store) Find(id string) (*domain.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := locate(s.roots, id)
	if !ok {
		return nil, false
	}
	return loc.node.Clone(), true
}

// Depth returns the nesting level of id, roots being at depth 0
func (s *Store) Depth(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := locate(s.roots, id)
	if !ok {
		return 0, false
	}
	return loc.depth, true
}

// CanReply reports whether a reply under id stays within MaxDepth levels.
// The store does not enforce this on ReplyToComment.
func (s *Store) CanReply(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := locate(s.roots, id)
	if !ok || loc.node.IsTemporary() || loc.node.IsDeleted {
		return false
	}
	return loc.depth+1 < s.cfg.MaxDepth
}

// IsPending reports whether an add, edit or delete on id is in flight
func (s *Store) IsPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[id]
	return ok
}

// HasNextPage reports whether LoadMore may return more root comments
func (s *Store) HasNextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasNextPage
}

// Count returns the number of nodes in the tree, tombstones included
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countNodes(s.roots)
}

// Subscribe registers fn for every settled operation. fn runs on the goroutine
// that settled the operation, after the tree is consistent again.
func (s *Store) Subscribe(fn func(Outcome)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) emit(outcome Outcome) {
	s.mu.Lock()
	fns := make([]func(Outcome), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(outcome)
	}
}

// begin registers a pending operation. Must be called with s.mu held.
func (s *Store) begin(kind OperationKind, target string, guarded bool) (*operation, error) {
	if guarded {
		if _, busy := s.inflight[target]; busy {
			return nil, &ConflictError{Op: kind, CommentID: target, Err: ErrOperationInFlight}
		}
		s.inflight[target] = kind
	}
	s.pendingOps++
	if s.metrics != nil {
		s.metrics.SetOperationsInFlight(s.pendingOps)
	}
	return &operation{
		kind:    kind,
		target:  target,
		guarded: guarded,
		state:   StatePending,
		started: time.Now(),
	}, nil
}

// settle moves op out of Pending. Must be called with s.mu held; the returned
// Outcome is emitted by the caller after unlocking.
func (s *Store) settle(op *operation, state OperationState, detached bool, commentID string, err error) Outcome {
	if op.state != StatePending {
		panic(fmt.Sprintf("commenttree: %s operation on %s settled twice", op.kind, op.target))
	}
	op.state = state
	if op.guarded {
		delete(s.inflight, op.target)
	}
	s.pendingOps--
	duration := time.Since(op.started)

	outcome := Outcome{
		Kind:      op.kind,
		CommentID: commentID,
		State:     state,
		Detached:  detached,
		Err:       err,
		Duration:  duration,
	}
	if op.kind == OpAdd || op.kind == OpReply {
		outcome.TempID = op.target
	}
	if outcome.CommentID == "" && op.kind != OpLoad {
		outcome.CommentID = op.target
	}

	label := metrics.OutcomeCommitted
	switch {
	case detached:
		label = metrics.OutcomeDetached
		s.logger.Info("Target left the tree before reconciliation",
			zap.String("operation", string(op.kind)),
			zap.String("comment_id", op.target),
			zap.String("state", state.String()),
		)
	case state == StateRolledBack:
		label = metrics.OutcomeRolledBack
		s.logger.Warn("Optimistic operation rolled back",
			zap.String("operation", string(op.kind)),
			zap.String("comment_id", op.target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	default:
		s.logger.Debug("Optimistic operation committed",
			zap.String("operation", string(op.kind)),
			zap.String("comment_id", outcome.CommentID),
			zap.Duration("duration", duration),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOptimisticOperation(string(op.kind), label, duration)
		s.metrics.SetOperationsInFlight(s.pendingOps)
		s.metrics.SetCommentsLoaded(countNodes(s.roots))
	}
	return outcome
}

// reject records an operation refused before it started
func (s *Store) reject(kind OperationKind, err error) error {
	s.logger.Debug("Operation rejected",
		zap.String("operation", string(kind)),
		zap.Error(err),
	)
	if s.metrics != nil {
		s.metrics.RecordOptimisticOperation(string(kind), metrics.OutcomeRejected, 0)
	}
	return err
}

func (s *Store) refreshLoadedGauge() {
	if s.metrics != nil {
		s.metrics.SetCommentsLoaded(countNodes(s.roots))
	}
}

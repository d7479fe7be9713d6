package commenttree

import (
	"context"

	"go.uber.org/zap"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/domain"
)

// LoadInitial replaces the whole tree with comments, treated as page one.
// Operations still in flight settle as detached against the new tree.
func (s *Store) LoadInitial(comments []*domain.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(comments, len(comments) >= s.cfg.PageSize)
}

// replace must be called with s.mu held
func (s *Store) replace(comments []*domain.Comment, hasNextPage bool) {
	s.roots = domain.CloneComments(comments)
	s.page = 1
	s.hasNextPage = hasNextPage
	s.epoch++
	s.refreshLoadedGauge()
	s.logger.Debug("Comment tree replaced",
		zap.Int("roots", len(s.roots)),
		zap.Bool("has_next_page", hasNextPage),
	)
}

// LoadMore fetches the next page of root comments and appends the ones not
// already in the tree. It returns the appended comments.
func (s *Store) LoadMore(ctx context.Context) ([]*domain.Comment, error) {
	s.mu.Lock()
	if !s.hasNextPage {
		s.mu.Unlock()
		return []*domain.Comment{}, nil
	}
	op, err := s.begin(OpLoad, loadKey, true)
	if err != nil {
		s.mu.Unlock()
		return nil, s.reject(OpLoad, err)
	}
	next := s.page + 1
	epoch := s.epoch
	s.mu.Unlock()

	resp, err := s.service.ListComments(ctx, s.cfg.PostID, next, s.cfg.PageSize)
	if err == nil && resp == nil {
		err = errNoRemoteResult
	}

	s.mu.Lock()
	if err != nil {
		rerr := &RemoteError{Op: OpLoad, Err: err}
		outcome := s.settle(op, StateRolledBack, false, "", rerr)
		s.mu.Unlock()
		s.emit(outcome)
		return nil, rerr
	}
	if epoch != s.epoch {
		// the tree was replaced while the page was in flight
		outcome := s.settle(op, StateCommitted, true, "", nil)
		s.mu.Unlock()
		s.emit(outcome)
		return []*domain.Comment{}, nil
	}

	seen := make(map[string]struct{})
	collectIDs(s.roots, seen)
	appended := make([]*domain.Comment, 0, len(resp.Comments))
	for _, c := range resp.Comments {
		if c == nil {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		node := c.Clone()
		collectIDs([]*domain.Comment{node}, seen)
		s.roots = append(s.roots, node)
		appended = append(appended, node.Clone())
	}
	s.page = next
	s.hasNextPage = resp.HasNextPage

	outcome := s.settle(op, StateCommitted, false, "", nil)
	s.mu.Unlock()
	s.emit(outcome)
	return appended, nil
}

// Refresh fetches page one from the service and replaces the tree with it
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	op, err := s.begin(OpLoad, loadKey, true)
	if err != nil {
		s.mu.Unlock()
		return s.reject(OpLoad, err)
	}
	s.mu.Unlock()

	resp, err := s.service.ListComments(ctx, s.cfg.PostID, 1, s.cfg.PageSize)
	if err == nil && resp == nil {
		err = errNoRemoteResult
	}

	s.mu.Lock()
	if err != nil {
		rerr := &RemoteError{Op: OpLoad, Err: err}
		outcome := s.settle(op, StateRolledBack, false, "", rerr)
		s.mu.Unlock()
		s.emit(outcome)
		return rerr
	}
	s.replace(resp.Comments, resp.HasNextPage)
	outcome := s.settle(op, StateCommitted, false, "", nil)
	s.mu.Unlock()
	s.emit(outcome)
	return nil
}

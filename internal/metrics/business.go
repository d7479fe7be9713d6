package metrics

import "time"

// Outcome labels for optimistic operations
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
	OutcomeDetached   = "detached"
	OutcomeRejected   = "rejected"
)

// RecordOptimisticOperation records a settled optimistic operation
func (m *Metrics) RecordOptimisticOperation(operation, outcome string, duration time.Duration) {
	m.safeExecute("RecordOptimisticOperation", func() {
		m.OptimisticOperationsTotal.WithLabelValues(operation, outcome).Inc()
		if outcome != OutcomeRejected {
			m.OptimisticOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
		}
	})
}

// SetOperationsInFlight sets the pending optimistic operation gauge
func (m *Metrics) SetOperationsInFlight(count int) {
	m.safeExecute("SetOperationsInFlight", func() {
		m.OperationsInFlight.Set(float64(count))
	})
}

// SetCommentsLoaded sets the loaded comment node gauge
func (m *Metrics) SetCommentsLoaded(count int) {
	m.safeExecute("SetCommentsLoaded", func() {
		m.CommentsLoaded.Set(float64(count))
	})
}

// IncrementCommentCreated increments comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// IncrementLikeToggled increments the like toggle counter
func (m *Metrics) IncrementLikeToggled() {
	m.safeExecute("IncrementLikeToggled", func() {
		m.CommentLikeToggledTotal.Inc()
	})
}

// AddTombstonesCompacted adds to the compacted tombstone counter
func (m *Metrics) AddTombstonesCompacted(count int) {
	m.safeExecute("AddTombstonesCompacted", func() {
		m.TombstonesCompactedTotal.Add(float64(count))
	})
}

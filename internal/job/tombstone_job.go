package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/metrics"
	"github.com/mr-deepansh/endlessChat-client-sub002/internal/repository"
)

const (
	defaultBatchSize = 100
	// each pass can orphan the parent tombstones of what it deleted
	maxPasses = 10
)

// TombstoneCleanupJob hard deletes tombstoned comments whose replies are all gone
type TombstoneCleanupJob struct {
	commentRepo repository.CommentRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
	batchSize   int
	timeout     time.Duration
}

// NewTombstoneCleanupJob creates a new TombstoneCleanupJob instance
func NewTombstoneCleanupJob(
	commentRepo repository.CommentRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TombstoneCleanupJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TombstoneCleanupJob{
		commentRepo: commentRepo,
		metrics:     m,
		logger:      logger,
		batchSize:   defaultBatchSize,
		timeout:     time.Minute,
	}
}

// Run executes the cleanup job; it satisfies cron.Job
func (j *TombstoneCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error("Tombstone cleanup failed", zap.Error(err))
	}
}

// RunOnce compacts tombstones until none are left or the pass limit is hit
// and returns how many comments were removed
func (j *TombstoneCleanupJob) RunOnce(ctx context.Context) (int64, error) {
	j.logger.Info("Starting tombstone cleanup job")

	var total int64
	for pass := 1; pass <= maxPasses; pass++ {
		ids, err := j.commentRepo.FindChildlessTombstones(ctx, j.batchSize)
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			break
		}

		deleted, err := j.commentRepo.DeleteBatch(ctx, ids)
		if err != nil {
			j.logger.Error("Failed to delete tombstones",
				zap.Int("count", len(ids)),
				zap.Int("pass", pass),
				zap.Error(err),
			)
			return total, err
		}
		total += deleted

		j.logger.Debug("Deleted tombstones",
			zap.Int64("count", deleted),
			zap.Int("pass", pass),
		)
	}

	if j.metrics != nil && total > 0 {
		j.metrics.AddTombstonesCompacted(int(total))
	}
	j.logger.Info("Tombstone cleanup job completed", zap.Int64("deleted", total))
	return total, nil
}

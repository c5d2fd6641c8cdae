package workers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/logger"
)

const defaultReconcileBatch = 500

// ReconcileJob 周期性地用关系表重新计算用户与帖子的冗余计数
type ReconcileJob struct {
	repo      *repository.CounterReconcileRepository
	batchSize int
	timeout   time.Duration
	logger    *logger.Logger
}

func NewReconcileJob(repo *repository.CounterReconcileRepository, batchSize int, logger *logger.Logger) *ReconcileJob {
	if batchSize <= 0 {
		batchSize = defaultReconcileBatch
	}
	return &ReconcileJob{
		repo:      repo,
		batchSize: batchSize,
		timeout:   10 * time.Minute,
		logger:    logger,
	}
}

// Run implements cron.Job.
func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	users, posts, err := j.Reconcile(ctx)
	entry := j.logger.WithFields(logrus.Fields{
		"users":    users,
		"posts":    posts,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Error("Counter reconcile failed")
		return
	}
	entry.Info("Counter reconcile finished")
}

// Reconcile 返回处理过的用户数与帖子数
func (j *ReconcileJob) Reconcile(ctx context.Context) (int, int, error) {
	users, err := j.walk(ctx, j.repo.NextUserBatch, j.repo.ReconcileUsers)
	if err != nil {
		return users, 0, err
	}
	posts, err := j.walk(ctx, j.repo.NextPostBatch, j.repo.ReconcilePosts)
	return users, posts, err
}

func (j *ReconcileJob) walk(
	ctx context.Context,
	next func(context.Context, uuid.UUID, int) ([]uuid.UUID, error),
	apply func(context.Context, []uuid.UUID) (int64, error),
) (int, error) {
	processed := 0
	cursor := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		ids, err := next(ctx, cursor, j.batchSize)
		if err != nil {
			return processed, err
		}
		if len(ids) == 0 {
			return processed, nil
		}

		if _, err := apply(ctx, ids); err != nil {
			return processed, err
		}
		processed += len(ids)
		cursor = ids[len(ids)-1]

		if len(ids) < j.batchSize {
			return processed, nil
		}
	}
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/social-feed/social-feed/internal/models"
)

// CounterReconcileRepository recomputes denormalized counters from the edge tables.
type CounterReconcileRepository struct {
	db *gorm.DB
}

func NewCounterReconcileRepository(db *gorm.DB) *CounterReconcileRepository {
	return &CounterReconcileRepository{db: db}
}

// NextUserBatch 按 id 游标分页，after 为 uuid.Nil 时从头开始
func (r *CounterReconcileRepository) NextUserBatch(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.nextBatch(ctx, &models.User{}, after, limit)
}

func (r *CounterReconcileRepository) NextPostBatch(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.nextBatch(ctx, &models.Post{}, after, limit)
}

func (r *CounterReconcileRepository) nextBatch(ctx context.Context, model interface{}, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := r.db.WithContext(ctx).Model(model)
	if after != uuid.Nil {
		query = query.Where("id > ?", after)
	}
	if err := query.Order("id ASC").Limit(limit).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load reconcile batch: %w", err)
	}
	return ids, nil
}

// ReconcileUsers 重新计算 followers/following/posts 计数
func (r *CounterReconcileRepository) ReconcileUsers(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Exec(`
UPDATE users SET
	followers_count = (SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id),
	following_count = (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id),
	posts_count = (SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id AND posts.is_active = ?)
WHERE id IN ?`, true, ids)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reconcile user counters: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *CounterReconcileRepository) ReconcilePosts(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Exec(`
UPDATE posts SET
	likes_count = (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)
WHERE id IN ?`, ids)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reconcile post counters: %w", result.Error)
	}
	return result.RowsAffected, nil
}

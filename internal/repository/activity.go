package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/social-feed/social-feed/internal/models"
)

// ActivityFilter narrows a listing. Zero value lists everything.
type ActivityFilter struct {
	ActorID       *uuid.UUID
	ExcludeActors []uuid.UUID
}

// ActivityStore is the append-only activity log. Implementations return
// activities ordered by created_at DESC, id DESC.
type ActivityStore interface {
	Append(ctx context.Context, activity *models.Activity) error
	List(ctx context.Context, filter ActivityFilter, offset, limit int) ([]*models.Activity, int64, error)
}

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Append(ctx context.Context, activity *models.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, filter ActivityFilter, offset, limit int) ([]*models.Activity, int64, error) {
	var (
		activities []*models.Activity
		total      int64
	)
	query := r.db.WithContext(ctx).Model(&models.Activity{})
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if len(filter.ExcludeActors) > 0 {
		query = query.Where("actor_id NOT IN ?", filter.ExcludeActors)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, total, nil
}

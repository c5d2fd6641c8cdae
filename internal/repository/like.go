package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/social-feed/social-feed/internal/models"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}

func (r *LikeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).First(&like, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return &like, nil
}

// Like 写入点赞并增加 likes_count
func (r *LikeRepository) Like(ctx context.Context, userID, postID uuid.UUID) (*models.Like, error) {
	like := &models.Like{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return adjustCounter(tx, &models.Post{}, postID, "likes_count", +1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create like: %w", err)
	}
	return like, nil
}

func (r *LikeRepository) Unlike(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return adjustCounter(tx, &models.Post{}, postID, "likes_count", -1)
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return removed, nil
}

// DeleteByID 管理员删除点赞
func (r *LikeRepository) DeleteByID(ctx context.Context, like *models.Like) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", like.ID).Delete(&models.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		removed = true
		return adjustCounter(tx, &models.Post{}, like.PostID, "likes_count", -1)
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return removed, nil
}

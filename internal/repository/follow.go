package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/social-feed/social-feed/internal/models"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return count > 0, nil
}

// Follow 写入关注边并在同一事务内调整双方计数
func (r *FollowRepository) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error; err != nil {
			return err
		}
		return adjustFollowCounts(tx, followerID, followingID, +1)
	})
	if err != nil {
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Unfollow 返回 false 表示关注边不存在
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = deleteFollow(tx, followerID, followingID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}
	return removed, nil
}

func deleteFollow(tx *gorm.DB, followerID, followingID uuid.UUID) (bool, error) {
	result := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	return true, adjustFollowCounts(tx, followerID, followingID, -1)
}

func adjustFollowCounts(tx *gorm.DB, followerID, followingID uuid.UUID, delta int) error {
	if err := adjustCounter(tx, &models.User{}, followerID, "following_count", delta); err != nil {
		return err
	}
	return adjustCounter(tx, &models.User{}, followingID, "followers_count", delta)
}

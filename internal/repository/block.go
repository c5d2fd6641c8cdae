package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/social-feed/social-feed/internal/models"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return count > 0, nil
}

// ExistsEither 任一方向存在拉黑即为 true
func (r *BlockRepository) ExistsEither(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return count > 0, nil
}

// Block 写入拉黑记录并删除双向关注边，计数在同一事务内修正
func (r *BlockRepository) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Block{BlockerID: blockerID, BlockedID: blockedID}).Error; err != nil {
			return err
		}
		if _, err := deleteFollow(tx, blockerID, blockedID); err != nil {
			return err
		}
		_, err := deleteFollow(tx, blockedID, blockerID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

func (r *BlockRepository) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete block: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// BlockedIDs 返回 blockerID 拉黑的用户
func (r *BlockRepository) BlockedIDs(ctx context.Context, blockerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list blocked users: %w", err)
	}
	return ids, nil
}

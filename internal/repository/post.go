package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/social-feed/social-feed/internal/models"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create 写入帖子并增加作者 posts_count
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return adjustCounter(tx, &models.User{}, post.AuthorID, "posts_count", +1)
	})
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID 包含已下架的帖子
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Post, error) {
	var posts []*models.Post
	if len(ids) == 0 {
		return posts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts by ids: %w", err)
	}
	return posts, nil
}

// ListActive 按时间倒序分页，排除 excludeAuthors 的帖子
func (r *PostRepository) ListActive(ctx context.Context, excludeAuthors []uuid.UUID, offset, limit int) ([]*models.Post, int64, error) {
	var (
		posts []*models.Post
		total int64
	)
	query := r.db.WithContext(ctx).Model(&models.Post{}).Where("is_active = ?", true)
	if len(excludeAuthors) > 0 {
		query = query.Where("author_id NOT IN ?", excludeAuthors)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}
	if err := query.
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

// SoftDelete 下架帖子并减少作者 posts_count；帖子已下架时返回 false
func (r *PostRepository) SoftDelete(ctx context.Context, post *models.Post, deletedBy uuid.UUID) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.Post{}).
			Where("id = ? AND is_active = ?", post.ID, true).
			Updates(map[string]interface{}{
				"is_active":  false,
				"deleted_by": deletedBy,
				"deleted_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		changed = true
		post.IsActive = false
		post.DeletedBy = &deletedBy
		post.DeletedAt = &now
		return adjustCounter(tx, &models.User{}, post.AuthorID, "posts_count", -1)
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}
	return changed, nil
}

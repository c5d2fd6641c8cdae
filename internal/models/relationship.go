package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Follow struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID  uuid.UUID `json:"followerId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:1"`
	FollowingID uuid.UUID `json:"followingId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:2;index"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Follow) TableName() string {
	return "follows"
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type Block struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BlockerID uuid.UUID `json:"blockerId" gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair,priority:1"`
	BlockedID uuid.UUID `json:"blockedId" gorm:"type:uuid;not null;uniqueIndex:idx_blocks_pair,priority:2;index"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Block) TableName() string {
	return "blocks"
}

func (b *Block) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post,priority:1"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post,priority:2;index"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

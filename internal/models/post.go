package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MaxPostLength = 5000

type Post struct {
	ID         uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	AuthorID   uuid.UUID                   `json:"authorId" gorm:"type:uuid;not null;index:idx_posts_author_created,priority:1"`
	Content    string                      `json:"content" gorm:"type:text;not null"`
	MediaURLs  datatypes.JSONSlice[string] `json:"mediaUrls"`
	LikesCount int64                       `json:"likesCount" gorm:"not null;default:0"`
	IsActive   bool                        `json:"isActive" gorm:"not null;default:true;index:idx_posts_active_created,priority:1"`
	DeletedBy  *uuid.UUID                  `json:"deletedBy,omitempty" gorm:"type:uuid"`
	DeletedAt  *time.Time                  `json:"deletedAt,omitempty"`
	CreatedAt  time.Time                   `json:"createdAt" gorm:"index:idx_posts_author_created,priority:2;index:idx_posts_active_created,priority:2"`
	UpdatedAt  time.Time                   `json:"updatedAt"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.MediaURLs == nil {
		p.MediaURLs = datatypes.JSONSlice[string]{}
	}
	return nil
}

// PostSummary is the target projection of a post in the feed.
type PostSummary struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
}

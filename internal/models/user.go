package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultProfilePicture = "https://via.placeholder.com/150"

type User struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username       string    `json:"username" gorm:"size:30;uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"not null"`
	FullName       string    `json:"fullName" gorm:"size:100;not null"`
	Bio            string    `json:"bio" gorm:"size:500"`
	ProfilePicture string    `json:"profilePicture"`
	Role           Role      `json:"role" gorm:"type:varchar(10);not null;default:'user';index"`
	IsActive       bool      `json:"isActive" gorm:"not null;default:true"`
	FollowersCount int64     `json:"followersCount" gorm:"not null;default:0"`
	FollowingCount int64     `json:"followingCount" gorm:"not null;default:0"`
	PostsCount     int64     `json:"postsCount" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.ProfilePicture == "" {
		u.ProfilePicture = DefaultProfilePicture
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// UserSummary is the public projection embedded in posts and feed items.
type UserSummary struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"fullName"`
	ProfilePicture string    `json:"profilePicture"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
	}
}

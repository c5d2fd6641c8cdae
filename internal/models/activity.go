package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityPostCreated        ActivityType = "POST_CREATED"
	ActivityPostLiked          ActivityType = "POST_LIKED"
	ActivityPostUnliked        ActivityType = "POST_UNLIKED"
	ActivityUserFollowed       ActivityType = "USER_FOLLOWED"
	ActivityUserUnfollowed     ActivityType = "USER_UNFOLLOWED"
	ActivityPostDeletedByAdmin ActivityType = "POST_DELETED_BY_ADMIN"
	ActivityPostDeletedByOwner ActivityType = "POST_DELETED_BY_OWNER"
	ActivityUserDeletedByAdmin ActivityType = "USER_DELETED_BY_ADMIN"
	ActivityUserDeletedByOwner ActivityType = "USER_DELETED_BY_OWNER"
	ActivityAdminCreated       ActivityType = "ADMIN_CREATED"
	ActivityAdminDeleted       ActivityType = "ADMIN_DELETED"
)

// FallbackActivityMessage is rendered for types outside the table.
const FallbackActivityMessage = "Activity occurred"

var activityTemplates = map[ActivityType]string{
	ActivityPostCreated:        "%s made a post",
	ActivityPostLiked:          "%s liked a post",
	ActivityPostUnliked:        "%s unliked a post",
	ActivityUserFollowed:       "%s followed a user",
	ActivityUserUnfollowed:     "%s unfollowed a user",
	ActivityPostDeletedByAdmin: "Post deleted by Admin %s",
	ActivityPostDeletedByOwner: "Post deleted by Owner %s",
	ActivityUserDeletedByAdmin: "User deleted by Admin %s",
	ActivityUserDeletedByOwner: "User deleted by Owner %s",
	ActivityAdminCreated:       "%s was made an admin",
	ActivityAdminDeleted:       "Admin %s was removed",
}

func (t ActivityType) Known() bool {
	_, ok := activityTemplates[t]
	return ok
}

// Render builds the display message for username.
func (t ActivityType) Render(username string) string {
	tmpl, ok := activityTemplates[t]
	if !ok {
		return FallbackActivityMessage
	}
	return fmt.Sprintf(tmpl, username)
}

// ActivityTypes lists every known type.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityPostCreated,
		ActivityPostLiked,
		ActivityPostUnliked,
		ActivityUserFollowed,
		ActivityUserUnfollowed,
		ActivityPostDeletedByAdmin,
		ActivityPostDeletedByOwner,
		ActivityUserDeletedByAdmin,
		ActivityUserDeletedByOwner,
		ActivityAdminCreated,
		ActivityAdminDeleted,
	}
}

type TargetModel string

const (
	TargetUser TargetModel = "User"
	TargetPost TargetModel = "Post"
)

func (m TargetModel) Valid() bool {
	return m == TargetUser || m == TargetPost
}

// Activity is append-only; ID is a monotonic sequence used as the ordering tie-break.
type Activity struct {
	ID          uint64            `json:"id" gorm:"primaryKey;autoIncrement"`
	Type        ActivityType      `json:"type" gorm:"type:varchar(40);not null;index:idx_activities_type_created,priority:1"`
	ActorID     uuid.UUID         `json:"actorId" gorm:"type:uuid;not null;index:idx_activities_actor_created,priority:1"`
	TargetID    uuid.UUID         `json:"targetId" gorm:"type:uuid;not null"`
	TargetModel TargetModel       `json:"targetModel" gorm:"type:varchar(10);not null"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	Message     string            `json:"message" gorm:"not null"`
	CreatedAt   time.Time         `json:"createdAt" gorm:"index:idx_activities_created;index:idx_activities_actor_created,priority:2;index:idx_activities_type_created,priority:2"`
}

func (Activity) TableName() string {
	return "activities"
}

// All lists every table managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Follow{},
		&Block{},
		&Like{},
		&Activity{},
	}
}

package services

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/pkg/apperror"
)

var (
	ErrInvalidID          = apperror.BadRequest("Invalid ID")
	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrPostNotFound       = apperror.NotFound("Post not found")
	ErrLikeNotFound       = apperror.NotFound("Like not found")
	ErrTargetNotFound     = apperror.NotFound("Activity target not found")
	ErrInvalidTargetModel = apperror.New(http.StatusBadRequest, "Invalid target model", apperror.ErrInvalidInput)
	ErrInvalidUsername    = apperror.BadRequest("Username must be between 3 and 30 characters")
	ErrFullNameRequired   = apperror.BadRequest("Full name is required")
	ErrUserExists         = apperror.Conflict("User already exists with this email or username")
	ErrMissingCredentials = apperror.BadRequest("Please provide email and password")
	ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")
	ErrAccountDeactivated = apperror.Unauthorized("User account is deactivated")
	ErrLoginDeactivated   = apperror.Unauthorized("Your account has been deactivated")
	ErrCannotFollowSelf   = apperror.BadRequest("You cannot follow yourself")
	ErrAlreadyFollowing   = apperror.Conflict("You are already following this user")
	ErrNotFollowing       = apperror.BadRequest("You are not following this user")
	ErrFollowBlocked      = apperror.Forbidden("You cannot follow this user")
	ErrCannotBlockSelf    = apperror.BadRequest("You cannot block yourself")
	ErrAlreadyBlocked     = apperror.Conflict("You have already blocked this user")
	ErrNotBlocked         = apperror.BadRequest("You have not blocked this user")
	ErrBlockedByViewer    = apperror.Forbidden("You have blocked this user")
	ErrAlreadyLiked       = apperror.Conflict("You already liked this post")
	ErrNotLiked           = apperror.BadRequest("You have not liked this post")
	ErrNotPostAuthor      = apperror.Forbidden("Not authorized to delete this post")
	ErrCannotDeleteOwner  = apperror.Forbidden("Cannot delete owner account")
	ErrCannotDeleteSelf   = apperror.BadRequest("You cannot delete your own account")
	ErrAdminCannotDelete  = apperror.Forbidden("Admins cannot delete other admins")
	ErrAlreadyAdmin       = apperror.BadRequest("User is already an admin")
	ErrCannotChangeOwner  = apperror.BadRequest("Cannot change owner role")
	ErrNotAdmin           = apperror.BadRequest("User is not an admin")
	ErrInsufficientRole   = apperror.Forbidden("Access denied. Admin privileges required.")
	ErrOwnerAlreadyExists = apperror.Conflict("An active owner account already exists")
	ErrEmptyContent       = apperror.BadRequest("Post content is required")
	ErrContentTooLong     = apperror.BadRequest(fmt.Sprintf("Post cannot exceed %d characters", models.MaxPostLength))
)

// ParseID 将路径参数解析为 uuid
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

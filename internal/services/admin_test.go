package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-feed/social-feed/internal/models"
)

func TestAdminService_DeletePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := h.user(t, "author", models.RoleUser)
	admin := h.user(t, "mod", models.RoleAdmin)
	post := h.post(t, author, "spam")

	require.NoError(t, h.admin.DeletePost(ctx, admin, post.ID))

	stored := h.reloadPost(t, post.ID)
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.DeletedBy)
	assert.Equal(t, admin.ID, *stored.DeletedBy)
	assert.NotNil(t, stored.DeletedAt)
	assert.EqualValues(t, 0, h.reloadUser(t, author.ID).PostsCount)

	deleted := h.activitiesOfType(t, models.ActivityPostDeletedByAdmin)
	require.Len(t, deleted, 1)
	assert.Equal(t, "Post deleted by Admin mod", deleted[0].Message)
	assert.Equal(t, author.ID.String(), deleted[0].Metadata["postAuthor"])

	assert.ErrorIs(t, h.admin.DeletePost(ctx, admin, post.ID), ErrPostNotFound)
	assert.ErrorIs(t, h.admin.DeletePost(ctx, admin, uuid.New()), ErrPostNotFound)
}

func TestAdminService_DeletePostByOwner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := h.user(t, "author", models.RoleUser)
	owner := h.user(t, "boss", models.RoleOwner)
	post := h.post(t, author, "spam")

	require.NoError(t, h.admin.DeletePost(ctx, owner, post.ID))
	deleted := h.activitiesOfType(t, models.ActivityPostDeletedByOwner)
	require.Len(t, deleted, 1)
	assert.Equal(t, "Post deleted by Owner boss", deleted[0].Message)
}

func TestAdminService_RequiresAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plain := h.user(t, "plain", models.RoleUser)
	other := h.user(t, "other", models.RoleUser)
	post := h.post(t, other, "hello")

	assert.ErrorIs(t, h.admin.DeletePost(ctx, plain, post.ID), ErrInsufficientRole)
	assert.ErrorIs(t, h.admin.DeleteUser(ctx, plain, other.ID), ErrInsufficientRole)
	assert.ErrorIs(t, h.admin.DeleteLike(ctx, plain, uuid.New()), ErrInsufficientRole)

	admin := h.user(t, "mod", models.RoleAdmin)
	_, err := h.admin.CreateAdmin(ctx, admin, other.ID)
	assert.ErrorIs(t, err, ErrInsufficientRole)
	_, err = h.admin.RemoveAdmin(ctx, admin, other.ID)
	assert.ErrorIs(t, err, ErrInsufficientRole)
}

func TestAdminService_DeleteUserRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "boss", models.RoleOwner)
	admin := h.user(t, "mod", models.RoleAdmin)
	otherAdmin := h.user(t, "mod2", models.RoleAdmin)
	member := h.user(t, "member", models.RoleUser)

	assert.ErrorIs(t, h.admin.DeleteUser(ctx, admin, owner.ID), ErrCannotDeleteOwner)
	assert.ErrorIs(t, h.admin.DeleteUser(ctx, admin, admin.ID), ErrCannotDeleteSelf)
	assert.ErrorIs(t, h.admin.DeleteUser(ctx, admin, otherAdmin.ID), ErrAdminCannotDelete)
	assert.ErrorIs(t, h.admin.DeleteUser(ctx, owner, owner.ID), ErrCannotDeleteOwner)
	assert.ErrorIs(t, h.admin.DeleteUser(ctx, admin, uuid.New()), ErrUserNotFound)

	require.NoError(t, h.admin.DeleteUser(ctx, admin, member.ID))
	assert.False(t, h.reloadUser(t, member.ID).IsActive)
	byAdmin := h.activitiesOfType(t, models.ActivityUserDeletedByAdmin)
	require.Len(t, byAdmin, 1)
	assert.Equal(t, "member", byAdmin[0].Metadata["deletedUsername"])

	// 已停用视为不存在
	assert.ErrorIs(t, h.admin.DeleteUser(ctx, admin, member.ID), ErrUserNotFound)

	require.NoError(t, h.admin.DeleteUser(ctx, owner, otherAdmin.ID))
	byOwner := h.activitiesOfType(t, models.ActivityUserDeletedByOwner)
	require.Len(t, byOwner, 1)
	assert.Equal(t, "User deleted by Owner boss", byOwner[0].Message)
}

func TestAdminService_DeleteLike(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := h.user(t, "author", models.RoleUser)
	fan := h.user(t, "fan", models.RoleUser)
	admin := h.user(t, "mod", models.RoleAdmin)
	post := h.post(t, author, "like me")

	like, err := h.likes.Like(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, h.reloadPost(t, post.ID).LikesCount)

	require.NoError(t, h.admin.DeleteLike(ctx, admin, like.ID))
	assert.EqualValues(t, 0, h.reloadPost(t, post.ID).LikesCount)
	assert.ErrorIs(t, h.admin.DeleteLike(ctx, admin, like.ID), ErrLikeNotFound)
}

func TestAdminService_GrantAndRevoke(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "boss", models.RoleOwner)
	member := h.user(t, "member", models.RoleUser)

	promoted, err := h.admin.CreateAdmin(ctx, owner, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)
	assert.Equal(t, models.RoleAdmin, h.reloadUser(t, member.ID).Role)

	_, err = h.admin.CreateAdmin(ctx, owner, member.ID)
	assert.ErrorIs(t, err, ErrAlreadyAdmin)
	_, err = h.admin.CreateAdmin(ctx, owner, owner.ID)
	assert.ErrorIs(t, err, ErrCannotChangeOwner)
	_, err = h.admin.CreateAdmin(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	admins, err := h.admin.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 2)

	demoted, err := h.admin.RemoveAdmin(ctx, owner, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, demoted.Role)

	_, err = h.admin.RemoveAdmin(ctx, owner, member.ID)
	assert.ErrorIs(t, err, ErrNotAdmin)
	_, err = h.admin.RemoveAdmin(ctx, owner, owner.ID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	created := h.activitiesOfType(t, models.ActivityAdminCreated)
	require.Len(t, created, 1)
	assert.Equal(t, "member", created[0].Metadata["newAdminUsername"])
	removed := h.activitiesOfType(t, models.ActivityAdminDeleted)
	require.Len(t, removed, 1)
	assert.Equal(t, "member", removed[0].Metadata["removedAdminUsername"])
}

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-feed/social-feed/internal/models"
)

func TestRelationshipService_FollowUnfollowRestoresCounters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.user(t, "alice", models.RoleUser)
	b := h.user(t, "bob", models.RoleUser)

	require.NoError(t, h.relationships.Follow(ctx, a.ID, b.ID))
	assert.EqualValues(t, 1, h.reloadUser(t, a.ID).FollowingCount)
	assert.EqualValues(t, 1, h.reloadUser(t, b.ID).FollowersCount)

	require.NoError(t, h.relationships.Unfollow(ctx, a.ID, b.ID))
	assert.EqualValues(t, 0, h.reloadUser(t, a.ID).FollowingCount)
	assert.EqualValues(t, 0, h.reloadUser(t, b.ID).FollowersCount)

	followed := h.activitiesOfType(t, models.ActivityUserFollowed)
	require.Len(t, followed, 1)
	assert.Equal(t, "alice followed a user", followed[0].Message)
	assert.Equal(t, b.ID, followed[0].TargetID)
	assert.Equal(t, models.TargetUser, followed[0].TargetModel)
	assert.Len(t, h.activitiesOfType(t, models.ActivityUserUnfollowed), 1)
}

func TestRelationshipService_FollowErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.user(t, "alice", models.RoleUser)
	b := h.user(t, "bob", models.RoleUser)

	assert.ErrorIs(t, h.relationships.Follow(ctx, a.ID, uuid.New()), ErrUserNotFound)
	assert.ErrorIs(t, h.relationships.Follow(ctx, a.ID, a.ID), ErrCannotFollowSelf)

	require.NoError(t, h.relationships.Follow(ctx, a.ID, b.ID))
	assert.ErrorIs(t, h.relationships.Follow(ctx, a.ID, b.ID), ErrAlreadyFollowing)
	assert.EqualValues(t, 1, h.reloadUser(t, b.ID).FollowersCount)

	assert.ErrorIs(t, h.relationships.Unfollow(ctx, b.ID, a.ID), ErrNotFollowing)
}

func TestRelationshipService_FollowRefusedWhileBlocked(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.user(t, "alice", models.RoleUser)
	b := h.user(t, "bob", models.RoleUser)

	require.NoError(t, h.relationships.Block(ctx, a.ID, b.ID))
	assert.ErrorIs(t, h.relationships.Follow(ctx, a.ID, b.ID), ErrFollowBlocked)
	assert.ErrorIs(t, h.relationships.Follow(ctx, b.ID, a.ID), ErrFollowBlocked)

	require.NoError(t, h.relationships.Unblock(ctx, a.ID, b.ID))
	assert.NoError(t, h.relationships.Follow(ctx, a.ID, b.ID))
}

func TestRelationshipService_BlockRemovesFollowEdges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.user(t, "alice", models.RoleUser)
	b := h.user(t, "bob", models.RoleUser)

	require.NoError(t, h.relationships.Follow(ctx, a.ID, b.ID))
	require.NoError(t, h.relationships.Follow(ctx, b.ID, a.ID))
	require.NoError(t, h.relationships.Block(ctx, a.ID, b.ID))

	exists, err := h.follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = h.follows.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	ra, rb := h.reloadUser(t, a.ID), h.reloadUser(t, b.ID)
	assert.Zero(t, ra.FollowersCount+ra.FollowingCount)
	assert.Zero(t, rb.FollowersCount+rb.FollowingCount)

	assert.ErrorIs(t, h.relationships.Block(ctx, a.ID, b.ID), ErrAlreadyBlocked)
}

func TestRelationshipService_BlockErrors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.user(t, "alice", models.RoleUser)
	b := h.user(t, "bob", models.RoleUser)

	assert.ErrorIs(t, h.relationships.Block(ctx, a.ID, a.ID), ErrCannotBlockSelf)
	assert.ErrorIs(t, h.relationships.Block(ctx, a.ID, uuid.New()), ErrUserNotFound)
	assert.ErrorIs(t, h.relationships.Unblock(ctx, a.ID, b.ID), ErrNotBlocked)
	assert.ErrorIs(t, h.relationships.Unblock(ctx, a.ID, uuid.New()), ErrUserNotFound)
}

func TestRelationshipService_DeactivatedTarget(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := h.user(t, "root", models.RoleOwner)
	a := h.user(t, "alice", models.RoleUser)
	b := h.user(t, "bob", models.RoleUser)
	c := h.user(t, "carol", models.RoleUser)

	require.NoError(t, h.relationships.Follow(ctx, a.ID, b.ID))
	require.NoError(t, h.admin.DeleteUser(ctx, owner, b.ID))

	assert.ErrorIs(t, h.relationships.Follow(ctx, c.ID, b.ID), ErrUserNotFound)

	require.NoError(t, h.relationships.Unfollow(ctx, a.ID, b.ID))
	exists, err := h.follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.EqualValues(t, 0, h.reloadUser(t, a.ID).FollowingCount)
	assert.EqualValues(t, 0, h.reloadUser(t, b.ID).FollowersCount)

	require.NoError(t, h.relationships.Block(ctx, c.ID, b.ID))
	require.NoError(t, h.relationships.Unblock(ctx, c.ID, b.ID))
}

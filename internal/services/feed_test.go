package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-feed/social-feed/internal/models"
)

func TestFeedService_ExcludesBlockedActors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	viewer := h.user(t, "viewer", models.RoleUser)
	friend := h.user(t, "friend", models.RoleUser)
	troll := h.user(t, "troll", models.RoleUser)

	h.post(t, friend, "hello")
	h.post(t, troll, "spam")
	h.post(t, troll, "more spam")
	require.NoError(t, h.relationships.Block(ctx, viewer.ID, troll.ID))

	blocked, err := h.relationships.BlockedIDs(ctx, viewer.ID)
	require.NoError(t, err)

	result, err := h.feed.GetFeed(ctx, viewer.ID, 1, 20, blocked)
	require.NoError(t, err)
	require.Len(t, result.Activities, 1)
	assert.EqualValues(t, 1, result.Pagination.Total)
	for _, item := range result.Activities {
		require.NotNil(t, item.Actor)
		assert.NotEqual(t, troll.ID, item.Actor.ID)
	}

	// 未拉黑的观察者能看到全部
	all, err := h.feed.GetFeed(ctx, friend.ID, 1, 20, nil)
	require.NoError(t, err)
	assert.Len(t, all.Activities, 3)
}

func TestFeedService_OrderAndTieBreak(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user(t, "alice", models.RoleUser)

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, msg := range []string{"older", "tie-first", "tie-second"} {
		created := at
		if i == 0 {
			created = at.Add(-time.Hour)
		}
		require.NoError(t, h.activities.Append(ctx, &models.Activity{
			Type: models.ActivityPostCreated, ActorID: alice.ID, TargetID: alice.ID,
			TargetModel: models.TargetUser, Message: msg, CreatedAt: created,
		}))
	}

	result, err := h.feed.GetFeed(ctx, alice.ID, 1, 10, nil)
	require.NoError(t, err)
	require.Len(t, result.Activities, 3)
	assert.Equal(t, "tie-second", result.Activities[0].Message)
	assert.Equal(t, "tie-first", result.Activities[1].Message)
	assert.Equal(t, "older", result.Activities[2].Message)
}

func TestFeedService_PaginationClamp(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user(t, "alice", models.RoleUser)
	for i := 0; i < 3; i++ {
		h.post(t, alice, "post")
	}

	result, err := h.feed.GetFeed(ctx, alice.ID, 0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 20, result.Pagination.Limit)

	result, err = h.feed.GetFeed(ctx, alice.ID, -2, 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Pagination.Limit)
	assert.Equal(t, 1, result.Pagination.Pages)

	result, err = h.feed.GetFeed(ctx, alice.ID, 2, 2, nil)
	require.NoError(t, err)
	assert.Len(t, result.Activities, 1)
	assert.Equal(t, 2, result.Pagination.Pages)
	assert.EqualValues(t, 3, result.Pagination.Total)

	result, err = h.feed.GetFeed(ctx, alice.ID, 9, 2, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Activities)
	assert.NotNil(t, result.Activities)
}

func TestFeedService_JoinsTargets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user(t, "alice", models.RoleUser)
	bob := h.user(t, "bob", models.RoleUser)

	post := h.post(t, bob, "bob's post")
	require.NoError(t, h.relationships.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, h.activities.Append(ctx, &models.Activity{
		Type: models.ActivityPostLiked, ActorID: alice.ID, TargetID: uuid.New(),
		TargetModel: models.TargetPost, Message: "dangling",
	}))

	result, err := h.feed.GetFeed(ctx, alice.ID, 1, 10, nil)
	require.NoError(t, err)
	require.Len(t, result.Activities, 3)

	dangling := result.Activities[0]
	assert.Equal(t, "dangling", dangling.Message)
	assert.Nil(t, dangling.Target)

	follow := result.Activities[1]
	assert.Equal(t, models.ActivityUserFollowed, follow.Type)
	require.IsType(t, &UserTarget{}, follow.Target)
	assert.Equal(t, "bob", follow.Target.(*UserTarget).Username)
	assert.Equal(t, "alice", follow.Actor.Username)

	created := result.Activities[2]
	require.IsType(t, &models.PostSummary{}, created.Target)
	assert.Equal(t, post.ID, created.Target.(*models.PostSummary).ID)
	assert.Equal(t, "bob's post", created.Target.(*models.PostSummary).Content)
}

func TestFeedService_GetUserActivities(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.user(t, "alice", models.RoleUser)
	bob := h.user(t, "bob", models.RoleUser)
	h.post(t, alice, "a")
	h.post(t, bob, "b")

	result, err := h.feed.GetUserActivities(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, result.Activities, 1)
	assert.Equal(t, "bob made a post", result.Activities[0].Message)
}

func TestFeedService_StoreError(t *testing.T) {
	h := newHarness(t)
	feed := NewFeedService(failingStore{}, h.users, h.posts, 20, h.log)
	_, err := feed.GetFeed(context.Background(), uuid.New(), 1, 10, nil)
	assert.Error(t, err)
}

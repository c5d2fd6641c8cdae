package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-feed/social-feed/internal/models"
)

func TestPostService_Create(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice", models.RoleUser)

	post, err := h.postSvc.Create(context.Background(), alice, &CreatePostRequest{
		Content:   "  hello world  ",
		MediaURLs: []string{"https://cdn.example.com/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", post.Content)
	assert.Equal(t, alice.ID, post.Author.ID)
	assert.EqualValues(t, 1, h.reloadUser(t, alice.ID).PostsCount)

	stored := h.reloadPost(t, post.ID)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, []string(stored.MediaURLs))

	created := h.activitiesOfType(t, models.ActivityPostCreated)
	require.Len(t, created, 1)
	assert.Equal(t, "alice made a post", created[0].Message)
	assert.Equal(t, post.ID, created[0].TargetID)
}

func TestPostService_CreateValidation(t *testing.T) {
	h := newHarness(t)
	alice := h.user(t, "alice", models.RoleUser)
	ctx := context.Background()

	_, err := h.postSvc.Create(ctx, alice, &CreatePostRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = h.postSvc.Create(ctx, alice, &CreatePostRequest{Content: strings.Repeat("é", models.MaxPostLength+1)})
	assert.ErrorIs(t, err, ErrContentTooLong)

	_, err = h.postSvc.Create(ctx, alice, &CreatePostRequest{Content: strings.Repeat("é", models.MaxPostLength)})
	assert.NoError(t, err)
}

func TestPostService_ListAndGetRespectBlocks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	viewer := h.user(t, "viewer", models.RoleUser)
	author := h.user(t, "author", models.RoleUser)
	other := h.user(t, "other", models.RoleUser)

	blockedPost := h.post(t, author, "hidden")
	h.post(t, other, "visible")
	require.NoError(t, h.relationships.Block(ctx, viewer.ID, author.ID))

	posts, meta, err := h.postSvc.List(ctx, viewer.ID, 1, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "visible", posts[0].Content)
	assert.Equal(t, 10, meta.Limit)

	_, err = h.postSvc.Get(ctx, viewer.ID, blockedPost.ID)
	assert.ErrorIs(t, err, ErrBlockedByViewer)

	got, err := h.postSvc.Get(ctx, other.ID, blockedPost.ID)
	require.NoError(t, err)
	assert.Equal(t, "hidden", got.Content)

	_, err = h.postSvc.Get(ctx, viewer.ID, uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_DeleteOwn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := h.user(t, "author", models.RoleUser)
	stranger := h.user(t, "stranger", models.RoleUser)
	post := h.post(t, author, "mine")

	assert.ErrorIs(t, h.postSvc.DeleteOwn(ctx, stranger.ID, post.ID), ErrNotPostAuthor)

	require.NoError(t, h.postSvc.DeleteOwn(ctx, author.ID, post.ID))
	assert.False(t, h.reloadPost(t, post.ID).IsActive)
	assert.EqualValues(t, 0, h.reloadUser(t, author.ID).PostsCount)

	assert.ErrorIs(t, h.postSvc.DeleteOwn(ctx, author.ID, post.ID), ErrPostNotFound)
	_, err := h.postSvc.Get(ctx, author.ID, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	// 作者自删不产生动态
	assert.Len(t, h.allActivities(t), 1)
}

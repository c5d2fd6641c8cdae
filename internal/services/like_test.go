package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/pkg/apperror"
)

func TestLikeService_LikeUnlike(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := h.user(t, "author", models.RoleUser)
	fan := h.user(t, "fan", models.RoleUser)
	post := h.post(t, author, "like me")

	res, err := h.likeSvc.Like(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.LikesCount)

	_, err = h.likeSvc.Like(ctx, fan.ID, post.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	assert.EqualValues(t, 1, h.reloadPost(t, post.ID).LikesCount)

	res, err = h.likeSvc.Unlike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.LikesCount)

	_, err = h.likeSvc.Unlike(ctx, fan.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotLiked)
	assert.EqualValues(t, 0, h.reloadPost(t, post.ID).LikesCount)

	liked := h.activitiesOfType(t, models.ActivityPostLiked)
	require.Len(t, liked, 1)
	assert.Equal(t, "fan liked a post", liked[0].Message)
	assert.Equal(t, author.ID.String(), liked[0].Metadata["postAuthor"])
	assert.Len(t, h.activitiesOfType(t, models.ActivityPostUnliked), 1)
}

func TestLikeService_MissingOrInactivePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	author := h.user(t, "author", models.RoleUser)
	post := h.post(t, author, "gone")
	require.NoError(t, h.postSvc.DeleteOwn(ctx, author.ID, post.ID))

	_, err := h.likeSvc.Like(ctx, author.ID, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = h.likeSvc.Like(ctx, author.ID, uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = h.likeSvc.Unlike(ctx, author.ID, uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/internal/testutil"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/queue"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if event, ok := value.(queue.Event); ok {
		p.events = append(p.events, event)
	}
	return nil
}

type failingStore struct{}

func (failingStore) Append(context.Context, *models.Activity) error {
	return errors.New("activity store unavailable")
}

func (failingStore) List(context.Context, repository.ActivityFilter, int, int) ([]*models.Activity, int64, error) {
	return nil, 0, errors.New("activity store unavailable")
}

type harness struct {
	db         *gorm.DB
	users      *repository.UserRepository
	posts      *repository.PostRepository
	follows    *repository.FollowRepository
	blocks     *repository.BlockRepository
	likes      *repository.LikeRepository
	activities *repository.ActivityRepository
	publisher  *recordingPublisher
	log        *logger.Logger

	recorder      *ActivityService
	feed          *FeedService
	userSvc       *UserService
	postSvc       *PostService
	likeSvc       *LikeService
	relationships *RelationshipService
	admin         *AdminService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	h := &harness{
		db:         db,
		users:      repository.NewUserRepository(db),
		posts:      repository.NewPostRepository(db),
		follows:    repository.NewFollowRepository(db),
		blocks:     repository.NewBlockRepository(db),
		likes:      repository.NewLikeRepository(db),
		activities: repository.NewActivityRepository(db),
		publisher:  &recordingPublisher{},
		log:        logger.Discard(),
	}
	h.recorder = NewActivityService(h.activities, h.users, h.posts, h.publisher, h.log)
	h.feed = NewFeedService(h.activities, h.users, h.posts, 20, h.log)
	h.userSvc = NewUserService(h.users, h.follows, h.blocks, h.log)
	h.postSvc = NewPostService(h.posts, h.blocks, h.recorder, h.log)
	h.likeSvc = NewLikeService(h.posts, h.likes, h.recorder, h.log)
	h.relationships = NewRelationshipService(h.users, h.follows, h.blocks, h.recorder, h.log)
	h.admin = NewAdminService(h.users, h.posts, h.likes, h.recorder, h.log)
	return h
}

func (h *harness) user(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		FullName: username + " full",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, h.users.Create(context.Background(), u))
	return u
}

func (h *harness) post(t *testing.T, author *models.User, content string) *models.Post {
	t.Helper()
	p, err := h.postSvc.Create(context.Background(), author, &CreatePostRequest{Content: content})
	require.NoError(t, err)
	return p
}

func (h *harness) reloadUser(t *testing.T, id uuid.UUID) *models.User {
	t.Helper()
	u, err := h.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func (h *harness) reloadPost(t *testing.T, id uuid.UUID) *models.Post {
	t.Helper()
	p, err := h.posts.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// allActivities 按写入顺序返回
func (h *harness) allActivities(t *testing.T) []*models.Activity {
	t.Helper()
	var out []*models.Activity
	require.NoError(t, h.db.Order("id ASC").Find(&out).Error)
	return out
}

func (h *harness) activitiesOfType(t *testing.T, activityType models.ActivityType) []*models.Activity {
	t.Helper()
	var out []*models.Activity
	for _, a := range h.allActivities(t) {
		if a.Type == activityType {
			out = append(out, a)
		}
	}
	return out
}

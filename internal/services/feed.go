package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/pagination"
)

// FeedItem is an activity joined with its actor and target at read time.
type FeedItem struct {
	ID          uint64              `json:"id"`
	Type        models.ActivityType `json:"type"`
	Actor       *models.UserSummary `json:"actor"`
	Target      interface{}         `json:"target"`
	TargetModel models.TargetModel  `json:"targetModel"`
	Metadata    datatypes.JSONMap   `json:"metadata,omitempty"`
	Message     string              `json:"message"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type UserTarget struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
}

type FeedResult struct {
	Activities []*FeedItem     `json:"activities"`
	Pagination pagination.Meta `json:"pagination"`
}

type FeedService struct {
	store        repository.ActivityStore
	userRepo     *repository.UserRepository
	postRepo     *repository.PostRepository
	defaultLimit int
	logger       *logger.Logger
}

func NewFeedService(store repository.ActivityStore, userRepo *repository.UserRepository, postRepo *repository.PostRepository, defaultLimit int, logger *logger.Logger) *FeedService {
	return &FeedService{
		store:        store,
		userRepo:     userRepo,
		postRepo:     postRepo,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// GetFeed 返回全站动态，排除 blockedIDs 中用户产生的动态。
// 拉黑关系由调用方解析，这里不做查询。
func (s *FeedService) GetFeed(ctx context.Context, viewerID uuid.UUID, page, limit int, blockedIDs []uuid.UUID) (*FeedResult, error) {
	return s.list(ctx, repository.ActivityFilter{ExcludeActors: blockedIDs}, page, limit)
}

// GetUserActivities 返回某个用户作为 actor 的动态
func (s *FeedService) GetUserActivities(ctx context.Context, actorID uuid.UUID, page, limit int) (*FeedResult, error) {
	return s.list(ctx, repository.ActivityFilter{ActorID: &actorID}, page, limit)
}

func (s *FeedService) list(ctx context.Context, filter repository.ActivityFilter, page, limit int) (*FeedResult, error) {
	page, limit = pagination.Normalize(page, limit, s.defaultLimit)

	activities, total, err := s.store.List(ctx, filter, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}

	items, err := s.hydrate(ctx, activities)
	if err != nil {
		return nil, err
	}

	return &FeedResult{
		Activities: items,
		Pagination: pagination.NewMeta(page, limit, total),
	}, nil
}

// hydrate 批量加载 actor 与 target，缺失的 target 输出为 null
func (s *FeedService) hydrate(ctx context.Context, activities []*models.Activity) ([]*FeedItem, error) {
	var userIDs, postIDs []uuid.UUID
	for _, a := range activities {
		userIDs = append(userIDs, a.ActorID)
		switch a.TargetModel {
		case models.TargetUser:
			userIDs = append(userIDs, a.TargetID)
		case models.TargetPost:
			postIDs = append(postIDs, a.TargetID)
		}
	}

	var (
		users []*models.User
		posts []*models.Post
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.userRepo.GetByIDs(gCtx, uniqueIDs(userIDs))
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.postRepo.GetByIDs(gCtx, uniqueIDs(postIDs))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userByID := make(map[uuid.UUID]*models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	postByID := make(map[uuid.UUID]*models.Post, len(posts))
	for _, p := range posts {
		postByID[p.ID] = p
	}

	items := make([]*FeedItem, 0, len(activities))
	for _, a := range activities {
		item := &FeedItem{
			ID:          a.ID,
			Type:        a.Type,
			Actor:       userByID[a.ActorID].Summary(),
			TargetModel: a.TargetModel,
			Metadata:    a.Metadata,
			Message:     a.Message,
			CreatedAt:   a.CreatedAt,
		}
		switch a.TargetModel {
		case models.TargetUser:
			if u, ok := userByID[a.TargetID]; ok {
				item.Target = &UserTarget{ID: u.ID, Username: u.Username, FullName: u.FullName}
			}
		case models.TargetPost:
			if p, ok := postByID[a.TargetID]; ok {
				item.Target = &models.PostSummary{ID: p.ID, Content: p.Content}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

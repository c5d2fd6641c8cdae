package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/pagination"
)

const defaultPostLimit = 10

type PostService struct {
	postRepo  *repository.PostRepository
	blockRepo *repository.BlockRepository
	recorder  *ActivityService
	logger    *logger.Logger
}

func NewPostService(postRepo *repository.PostRepository, blockRepo *repository.BlockRepository, recorder *ActivityService, logger *logger.Logger) *PostService {
	return &PostService{
		postRepo:  postRepo,
		blockRepo: blockRepo,
		recorder:  recorder,
		logger:    logger,
	}
}

type CreatePostRequest struct {
	Content   string   `json:"content" binding:"required"`
	MediaURLs []string `json:"mediaUrls" binding:"omitempty,max=10,dive,url"`
}

func (s *PostService) Create(ctx context.Context, author *models.User, req *CreatePostRequest) (*models.Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > models.MaxPostLength {
		return nil, ErrContentTooLong
	}

	post := &models.Post{
		AuthorID:  author.ID,
		Content:   content,
		MediaURLs: datatypes.JSONSlice[string](req.MediaURLs),
		IsActive:  true,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = author

	s.recorder.RecordBestEffort(ctx, models.ActivityPostCreated, author.ID, post.ID, models.TargetPost, nil)

	s.logger.WithField("post_id", post.ID).Info("Post created")
	return post, nil
}

// List 返回未下架的帖子，排除 viewer 拉黑的作者
func (s *PostService) List(ctx context.Context, viewerID uuid.UUID, page, limit int) ([]*models.Post, pagination.Meta, error) {
	page, limit = pagination.Normalize(page, limit, defaultPostLimit)

	blocked, err := s.blockRepo.BlockedIDs(ctx, viewerID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	posts, total, err := s.postRepo.ListActive(ctx, blocked, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return posts, pagination.NewMeta(page, limit, total), nil
}

func (s *PostService) Get(ctx context.Context, viewerID, postID uuid.UUID) (*models.Post, error) {
	post, err := s.getActive(ctx, postID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.blockRepo.Exists(ctx, viewerID, post.AuthorID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlockedByViewer
	}
	return post, nil
}

// DeleteOwn 作者删除自己的帖子，不记录动态
func (s *PostService) DeleteOwn(ctx context.Context, viewerID, postID uuid.UUID) error {
	post, err := s.getActive(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != viewerID {
		return ErrNotPostAuthor
	}

	changed, err := s.postRepo.SoftDelete(ctx, post, viewerID)
	if err != nil {
		return err
	}
	if !changed {
		return ErrPostNotFound
	}

	s.logger.WithField("post_id", post.ID).Info("Post deleted by author")
	return nil
}

func (s *PostService) getActive(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsActive {
		return nil, ErrPostNotFound
	}
	return post, nil
}

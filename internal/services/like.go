package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/logger"
)

type LikeService struct {
	postRepo *repository.PostRepository
	likeRepo *repository.LikeRepository
	recorder *ActivityService
	logger   *logger.Logger
}

func NewLikeService(postRepo *repository.PostRepository, likeRepo *repository.LikeRepository, recorder *ActivityService, logger *logger.Logger) *LikeService {
	return &LikeService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		recorder: recorder,
		logger:   logger,
	}
}

// LikeResult is returned by like/unlike.
type LikeResult struct {
	PostID     uuid.UUID `json:"postId"`
	LikesCount int64     `json:"likesCount"`
}

func (s *LikeService) Like(ctx context.Context, userID, postID uuid.UUID) (*LikeResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsActive {
		return nil, ErrPostNotFound
	}

	// 检查是否已点赞
	liked, err := s.likeRepo.Exists(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, ErrAlreadyLiked
	}

	if _, err := s.likeRepo.Like(ctx, userID, postID); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}

	s.recorder.RecordBestEffort(ctx, models.ActivityPostLiked, userID, postID, models.TargetPost, map[string]interface{}{
		"postAuthor": post.AuthorID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"post_id": postID,
	}).Info("Post liked")
	return s.result(ctx, postID)
}

func (s *LikeService) Unlike(ctx context.Context, userID, postID uuid.UUID) (*LikeResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	removed, err := s.likeRepo.Unlike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotLiked
	}

	s.recorder.RecordBestEffort(ctx, models.ActivityPostUnliked, userID, postID, models.TargetPost, map[string]interface{}{
		"postAuthor": post.AuthorID.String(),
	})

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"post_id": postID,
	}).Info("Post unliked")
	return s.result(ctx, postID)
}

func (s *LikeService) result(ctx context.Context, postID uuid.UUID) (*LikeResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return &LikeResult{PostID: post.ID, LikesCount: post.LikesCount}, nil
}

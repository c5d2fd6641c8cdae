package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/logger"
)

// RelationshipService handles follow and block edges between users.
type RelationshipService struct {
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	blockRepo  *repository.BlockRepository
	recorder   *ActivityService
	logger     *logger.Logger
}

func NewRelationshipService(userRepo *repository.UserRepository, followRepo *repository.FollowRepository, blockRepo *repository.BlockRepository, recorder *ActivityService, logger *logger.Logger) *RelationshipService {
	return &RelationshipService{
		userRepo:   userRepo,
		followRepo: followRepo,
		blockRepo:  blockRepo,
		recorder:   recorder,
		logger:     logger,
	}
}

func (s *RelationshipService) Follow(ctx context.Context, followerID, targetID uuid.UUID) error {
	if _, err := s.activeUser(ctx, targetID); err != nil {
		return err
	}
	if followerID == targetID {
		return ErrCannotFollowSelf
	}

	// 任一方向存在拉黑都不允许关注
	blocked, err := s.blockRepo.ExistsEither(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrFollowBlocked
	}

	following, err := s.followRepo.Exists(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if following {
		return ErrAlreadyFollowing
	}

	if err := s.followRepo.Follow(ctx, followerID, targetID); err != nil {
		if repository.IsDuplicate(err) {
			return ErrAlreadyFollowing
		}
		return err
	}

	s.recorder.RecordBestEffort(ctx, models.ActivityUserFollowed, followerID, targetID, models.TargetUser, nil)
	s.log(followerID, targetID).Info("User followed")
	return nil
}

// Unfollow 目标已停用时仍可移除关注边
func (s *RelationshipService) Unfollow(ctx context.Context, followerID, targetID uuid.UUID) error {
	if _, err := s.existingUser(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.followRepo.Unfollow(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFollowing
	}

	s.recorder.RecordBestEffort(ctx, models.ActivityUserUnfollowed, followerID, targetID, models.TargetUser, nil)
	s.log(followerID, targetID).Info("User unfollowed")
	return nil
}

// Block 拉黑同时移除双向关注边，不记录动态
func (s *RelationshipService) Block(ctx context.Context, blockerID, targetID uuid.UUID) error {
	if _, err := s.existingUser(ctx, targetID); err != nil {
		return err
	}
	if blockerID == targetID {
		return ErrCannotBlockSelf
	}

	exists, err := s.blockRepo.Exists(ctx, blockerID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyBlocked
	}

	if err := s.blockRepo.Block(ctx, blockerID, targetID); err != nil {
		if repository.IsDuplicate(err) {
			return ErrAlreadyBlocked
		}
		return err
	}

	s.log(blockerID, targetID).Info("User blocked")
	return nil
}

func (s *RelationshipService) Unblock(ctx context.Context, blockerID, targetID uuid.UUID) error {
	if _, err := s.existingUser(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.blockRepo.Unblock(ctx, blockerID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotBlocked
	}

	s.log(blockerID, targetID).Info("User unblocked")
	return nil
}

// BlockedIDs 返回 viewer 拉黑的用户，供动态流与帖子列表过滤
func (s *RelationshipService) BlockedIDs(ctx context.Context, viewerID uuid.UUID) ([]uuid.UUID, error) {
	return s.blockRepo.BlockedIDs(ctx, viewerID)
}

func (s *RelationshipService) activeUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.existingUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *RelationshipService) existingUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *RelationshipService) log(actorID, targetID uuid.UUID) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"actor_id":  actorID,
		"target_id": targetID,
	})
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/queue"
)

// ActivityService renders and appends activity records.
type ActivityService struct {
	store    repository.ActivityStore
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
	producer queue.Publisher
	logger   *logger.Logger
}

func NewActivityService(store repository.ActivityStore, userRepo *repository.UserRepository, postRepo *repository.PostRepository, producer queue.Publisher, logger *logger.Logger) *ActivityService {
	return &ActivityService{
		store:    store,
		userRepo: userRepo,
		postRepo: postRepo,
		producer: producer,
		logger:   logger,
	}
}

// Record 校验 actor 与 target 后追加一条动态，不修改任何计数
func (s *ActivityService) Record(ctx context.Context, activityType models.ActivityType, actorID, targetID uuid.UUID, targetModel models.TargetModel, metadata map[string]interface{}) (*models.Activity, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actor: %w", err)
	}
	if actor == nil {
		return nil, ErrUserNotFound
	}

	if err := s.resolveTarget(ctx, targetID, targetModel); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		Type:        activityType,
		ActorID:     actor.ID,
		TargetID:    targetID,
		TargetModel: targetModel,
		Metadata:    metadata,
		Message:     activityType.Render(actor.Username),
	}
	if err := s.store.Append(ctx, activity); err != nil {
		return nil, err
	}

	s.publish(ctx, activity)
	return activity, nil
}

// RecordBestEffort 主操作已提交后调用；失败只记日志，不影响主响应
func (s *ActivityService) RecordBestEffort(ctx context.Context, activityType models.ActivityType, actorID, targetID uuid.UUID, targetModel models.TargetModel, metadata map[string]interface{}) {
	if _, err := s.Record(ctx, activityType, actorID, targetID, targetModel, metadata); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"activity_type": activityType,
			"actor_id":      actorID,
			"target_id":     targetID,
			"target_model":  targetModel,
		}).Error("Failed to record activity")
	}
}

// resolveTarget 已下架的帖子和被停用的用户仍然视为存在
func (s *ActivityService) resolveTarget(ctx context.Context, targetID uuid.UUID, targetModel models.TargetModel) error {
	switch targetModel {
	case models.TargetUser:
		user, err := s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			return fmt.Errorf("failed to resolve target: %w", err)
		}
		if user == nil {
			return ErrTargetNotFound
		}
	case models.TargetPost:
		post, err := s.postRepo.GetByID(ctx, targetID)
		if err != nil {
			return fmt.Errorf("failed to resolve target: %w", err)
		}
		if post == nil {
			return ErrTargetNotFound
		}
	default:
		return ErrInvalidTargetModel
	}
	return nil
}

func (s *ActivityService) publish(ctx context.Context, activity *models.Activity) {
	event, err := queue.NewEvent(queue.EventActivityRecorded, queue.ActivityEventData{
		ActivityID:   activity.ID,
		ActivityType: string(activity.Type),
		ActorID:      activity.ActorID.String(),
		TargetID:     activity.TargetID.String(),
		TargetModel:  string(activity.TargetModel),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to build activity event")
		return
	}
	if err := s.producer.Publish(ctx, activity.ActorID.String(), event); err != nil {
		s.logger.WithError(err).WithField("activity_id", activity.ID).Error("Failed to publish activity event")
	}
}

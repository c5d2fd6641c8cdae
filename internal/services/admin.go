package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/logger"
)

// AdminService carries the moderation rules that sit behind the role gates.
type AdminService struct {
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
	likeRepo *repository.LikeRepository
	recorder *ActivityService
	logger   *logger.Logger
}

func NewAdminService(userRepo *repository.UserRepository, postRepo *repository.PostRepository, likeRepo *repository.LikeRepository, recorder *ActivityService, logger *logger.Logger) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		postRepo: postRepo,
		likeRepo: likeRepo,
		recorder: recorder,
		logger:   logger,
	}
}

// DeletePost 下架帖子；已下架视为不存在，避免重复扣减作者计数
func (s *AdminService) DeletePost(ctx context.Context, actor *models.User, postID uuid.UUID) error {
	if !actor.Role.IsAdmin() {
		return ErrInsufficientRole
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil || !post.IsActive {
		return ErrPostNotFound
	}

	changed, err := s.postRepo.SoftDelete(ctx, post, actor.ID)
	if err != nil {
		return err
	}
	if !changed {
		return ErrPostNotFound
	}

	activityType := models.ActivityPostDeletedByAdmin
	if actor.Role.IsOwner() {
		activityType = models.ActivityPostDeletedByOwner
	}
	s.recorder.RecordBestEffort(ctx, activityType, actor.ID, post.ID, models.TargetPost, map[string]interface{}{
		"postAuthor": post.AuthorID.String(),
	})

	s.log(actor, post.ID).Info("Post deleted by moderator")
	return nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actor *models.User, userID uuid.UUID) error {
	if !actor.Role.IsAdmin() {
		return ErrInsufficientRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return ErrUserNotFound
	}

	if user.Role.IsOwner() {
		return ErrCannotDeleteOwner
	}
	if user.ID == actor.ID {
		return ErrCannotDeleteSelf
	}
	// 管理员之间不能互删，只有 owner 可以删除管理员
	if !actor.Role.IsOwner() && user.Role.IsAdmin() {
		return ErrAdminCannotDelete
	}

	changed, err := s.userRepo.Deactivate(ctx, user.ID)
	if err != nil {
		return err
	}
	if !changed {
		return ErrUserNotFound
	}

	activityType := models.ActivityUserDeletedByAdmin
	if actor.Role.IsOwner() {
		activityType = models.ActivityUserDeletedByOwner
	}
	s.recorder.RecordBestEffort(ctx, activityType, actor.ID, user.ID, models.TargetUser, map[string]interface{}{
		"deletedUsername": user.Username,
	})

	s.log(actor, user.ID).Info("User deactivated by moderator")
	return nil
}

func (s *AdminService) DeleteLike(ctx context.Context, actor *models.User, likeID uuid.UUID) error {
	if !actor.Role.IsAdmin() {
		return ErrInsufficientRole
	}

	like, err := s.likeRepo.GetByID(ctx, likeID)
	if err != nil {
		return err
	}
	if like == nil {
		return ErrLikeNotFound
	}

	removed, err := s.likeRepo.DeleteByID(ctx, like)
	if err != nil {
		return err
	}
	if !removed {
		return ErrLikeNotFound
	}

	s.log(actor, like.ID).Info("Like deleted by moderator")
	return nil
}

func (s *AdminService) CreateAdmin(ctx context.Context, actor *models.User, userID uuid.UUID) (*models.User, error) {
	if !actor.Role.IsOwner() {
		return nil, ErrInsufficientRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}

	switch {
	case user.Role.IsOwner():
		return nil, ErrCannotChangeOwner
	case user.Role.IsAdmin():
		return nil, ErrAlreadyAdmin
	}

	if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return nil, err
	}
	user.Role = models.RoleAdmin

	s.recorder.RecordBestEffort(ctx, models.ActivityAdminCreated, actor.ID, user.ID, models.TargetUser, map[string]interface{}{
		"newAdminUsername": user.Username,
	})

	s.log(actor, user.ID).Info("Admin created")
	return user, nil
}

func (s *AdminService) RemoveAdmin(ctx context.Context, actor *models.User, userID uuid.UUID) (*models.User, error) {
	if !actor.Role.IsOwner() {
		return nil, ErrInsufficientRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	// owner 不是 admin，这里同样拒绝，owner 角色不会被降级
	if !user.Role.In(models.RoleAdmin) {
		return nil, ErrNotAdmin
	}

	if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleUser); err != nil {
		return nil, err
	}
	user.Role = models.RoleUser

	s.recorder.RecordBestEffort(ctx, models.ActivityAdminDeleted, actor.ID, user.ID, models.TargetUser, map[string]interface{}{
		"removedAdminUsername": user.Username,
	})

	s.log(actor, user.ID).Info("Admin removed")
	return user, nil
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.ListActiveByRoles(ctx, models.RoleAdmin, models.RoleOwner)
}

func (s *AdminService) log(actor *models.User, targetID uuid.UUID) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"actor_id":   actor.ID,
		"actor_role": actor.Role,
		"target_id":  targetID,
	})
}

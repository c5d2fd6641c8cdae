package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/pagination"
)

type UserService struct {
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	blockRepo  *repository.BlockRepository
	logger     *logger.Logger
}

func NewUserService(userRepo *repository.UserRepository, followRepo *repository.FollowRepository, blockRepo *repository.BlockRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		followRepo: followRepo,
		blockRepo:  blockRepo,
		logger:     logger,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	FullName string `json:"fullName" binding:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName       *string `json:"fullName" binding:"omitempty,min=1,max=100"`
	Bio            *string `json:"bio" binding:"omitempty,max=500"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,url"`
}

// ProfileView is a user as seen by another user.
type ProfileView struct {
	*models.User
	IsFollowing bool `json:"isFollowing"`
}

func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	fullName := strings.TrimSpace(req.FullName)

	// binding 校验的是去空格前的值
	if n := utf8.RuneCountInString(username); n < 3 || n > 30 {
		return nil, ErrInvalidUsername
	}
	if fullName == "" {
		return nil, ErrFullNameRequired
	}

	// 检查用户名或邮箱是否已存在
	existing, err := s.userRepo.GetByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		FullName: fullName,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrLoginDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, nil
}

// GetByID 返回任意状态的用户，认证中间件据此判断是否停用
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}

	if viewerID != userID {
		blocked, err := s.blockRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, ErrBlockedByViewer
		}
	}

	following, err := s.followRepo.Exists(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileView{User: user, IsFollowing: following}, nil
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]*models.User, pagination.Meta, error) {
	page, limit = pagination.Normalize(page, limit, pagination.DefaultLimit)
	users, total, err := s.userRepo.ListActive(ctx, pagination.Offset(page, limit), limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, pagination.NewMeta(page, limit, total), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	updates := make(map[string]interface{})
	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, ErrFullNameRequired
		}
		updates["full_name"] = fullName
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.ProfilePicture != nil {
		updates["profile_picture"] = strings.TrimSpace(*req.ProfilePicture)
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, updates); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", userID).Info("User profile updated")
	return s.GetByID(ctx, userID)
}

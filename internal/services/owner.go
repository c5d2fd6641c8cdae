package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/pkg/apperror"
	"github.com/social-feed/social-feed/pkg/logger"
)

type CreateOwnerRequest struct {
	Username string
	Email    string
	Password string
	FullName string
}

// OwnerBootstrapService creates the single owner account on a fresh install.
type OwnerBootstrapService struct {
	userRepo *repository.UserRepository
	logger   *logger.Logger
}

func NewOwnerBootstrapService(userRepo *repository.UserRepository, logger *logger.Logger) *OwnerBootstrapService {
	return &OwnerBootstrapService{userRepo: userRepo, logger: logger}
}

func (s *OwnerBootstrapService) CreateOwner(ctx context.Context, req *CreateOwnerRequest) (*models.User, error) {
	if len(req.Password) < 6 {
		return nil, apperror.BadRequest("Owner password must be at least 6 characters")
	}

	owners, err := s.userRepo.CountActiveByRole(ctx, models.RoleOwner)
	if err != nil {
		return nil, err
	}
	if owners > 0 {
		return nil, ErrOwnerAlreadyExists
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.userRepo.GetByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	owner := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		FullName: req.FullName,
		Role:     models.RoleOwner,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, owner); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.WithField("user_id", owner.ID).Info("Owner account created")
	return owner, nil
}

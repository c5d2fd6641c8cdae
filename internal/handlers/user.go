package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/social-feed/social-feed/internal/middleware"
	"github.com/social-feed/social-feed/internal/services"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/response"
)

type UserHandler struct {
	userService   *services.UserService
	relationships *services.RelationshipService
	jwtManager    *middleware.JWTManager
	logger        *logger.Logger
}

func NewUserHandler(userService *services.UserService, relationships *services.RelationshipService, jwtManager *middleware.JWTManager, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService:   userService,
		relationships: relationships,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// RegisterAuthRoutes /api/auth
func (h *UserHandler) RegisterAuthRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.GET("/me", auth, h.Me)
}

// RegisterRoutes /api/users
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	users := r.Group("", auth)
	{
		users.GET("", h.List)
		users.PUT("/profile", h.UpdateProfile)
		users.GET("/:id", h.GetProfile)
		users.POST("/:id/follow", h.Follow)
		users.DELETE("/:id/follow", h.Unfollow)
		users.POST("/:id/block", h.Block)
		users.DELETE("/:id/block", h.Unblock)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	// 生成JWT token
	token, err := h.jwtManager.GenerateToken(user.ID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Created(c, "User registered successfully", gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.logger, services.ErrMissingCredentials)
		return
	}

	user, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "User profile retrieved", user)
}

func (h *UserHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	users, meta, err := h.userService.List(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, "Users retrieved successfully", gin.H{
		"users":      users,
		"pagination": meta,
	})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), middleware.GetUserID(c), userID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "User profile retrieved", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Profile updated successfully", user)
}

func (h *UserHandler) Follow(c *gin.Context) {
	h.relationship(c, h.relationships.Follow, "User followed successfully")
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	h.relationship(c, h.relationships.Unfollow, "User unfollowed successfully")
}

func (h *UserHandler) Block(c *gin.Context) {
	h.relationship(c, h.relationships.Block, "User blocked successfully")
}

func (h *UserHandler) Unblock(c *gin.Context) {
	h.relationship(c, h.relationships.Unblock, "User unblocked successfully")
}

func (h *UserHandler) relationship(c *gin.Context, op func(ctx context.Context, actorID, targetID uuid.UUID) error, message string) {
	targetID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	if err := op(c.Request.Context(), middleware.GetUserID(c), targetID); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, message, nil)
}

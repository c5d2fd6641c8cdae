package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/social-feed/social-feed/internal/middleware"
	"github.com/social-feed/social-feed/internal/services"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/response"
)

type AdminHandler struct {
	adminService *services.AdminService
	statsService *services.StatsService
	logger       *logger.Logger
}

func NewAdminHandler(adminService *services.AdminService, statsService *services.StatsService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		statsService: statsService,
		logger:       logger,
	}
}

type CreateAdminRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

// RegisterRoutes /api/admin
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	// 管理员与 owner
	moderation := r.Group("", auth, middleware.IsAdmin())
	{
		moderation.DELETE("/posts/:id", h.DeletePost)
		moderation.DELETE("/users/:id", h.DeleteUser)
		moderation.DELETE("/likes/:id", h.DeleteLike)
		moderation.GET("/stats", h.Stats)
	}

	// 仅 owner
	owner := r.Group("", auth, middleware.IsOwner())
	{
		owner.POST("/create", h.CreateAdmin)
		owner.GET("/list", h.ListAdmins)
		owner.DELETE("/:id", h.RemoveAdmin)
	}
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	if err := h.adminService.DeletePost(c.Request.Context(), middleware.CurrentUser(c), postID); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Post deleted successfully", nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), middleware.CurrentUser(c), userID); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "User deleted successfully", nil)
}

func (h *AdminHandler) DeleteLike(c *gin.Context) {
	likeID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	if err := h.adminService.DeleteLike(c.Request.Context(), middleware.CurrentUser(c), likeID); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Like deleted successfully", nil)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	userID, err := services.ParseID(req.UserID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	user, err := h.adminService.CreateAdmin(c.Request.Context(), middleware.CurrentUser(c), userID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Admin created successfully", user)
}

func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	userID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	user, err := h.adminService.RemoveAdmin(c.Request.Context(), middleware.CurrentUser(c), userID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Admin removed successfully", user)
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminService.ListAdmins(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Admins retrieved successfully", admins)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.ActivityStats(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Activity stats retrieved successfully", stats)
}

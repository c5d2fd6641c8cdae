package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/social-feed/social-feed/internal/middleware"
	"github.com/social-feed/social-feed/internal/services"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/response"
)

// FeedHandler serves posts, likes and the activity feed.
type FeedHandler struct {
	postService   *services.PostService
	likeService   *services.LikeService
	feedService   *services.FeedService
	relationships *services.RelationshipService
	logger        *logger.Logger
}

func NewFeedHandler(postService *services.PostService, likeService *services.LikeService, feedService *services.FeedService, relationships *services.RelationshipService, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		postService:   postService,
		likeService:   likeService,
		feedService:   feedService,
		relationships: relationships,
		logger:        logger,
	}
}

// RegisterPostRoutes /api/posts
func (h *FeedHandler) RegisterPostRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	posts := r.Group("", auth)
	{
		posts.POST("", h.CreatePost)
		posts.GET("", h.ListPosts)
		posts.GET("/:id", h.GetPost)
		posts.DELETE("/:id", h.DeletePost)
		posts.POST("/:id/like", h.LikePost)
		posts.DELETE("/:id/like", h.UnlikePost)
	}
}

// RegisterActivityRoutes /api/activities
func (h *FeedHandler) RegisterActivityRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	activities := r.Group("", auth)
	{
		activities.GET("", h.GetFeed)
		activities.GET("/user/:id", h.GetUserActivities)
	}
}

func (h *FeedHandler) CreatePost(c *gin.Context) {
	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	post, err := h.postService.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Created(c, "Post created successfully", post)
}

func (h *FeedHandler) ListPosts(c *gin.Context) {
	page, limit := pageParams(c)
	posts, meta, err := h.postService.List(c.Request.Context(), middleware.GetUserID(c), page, limit)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, "Posts retrieved successfully", gin.H{
		"posts":      posts,
		"pagination": meta,
	})
}

func (h *FeedHandler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), middleware.GetUserID(c), postID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Post retrieved successfully", post)
}

func (h *FeedHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	if err := h.postService.DeleteOwn(c.Request.Context(), middleware.GetUserID(c), postID); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Post deleted successfully", nil)
}

func (h *FeedHandler) LikePost(c *gin.Context) {
	postID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	result, err := h.likeService.Like(c.Request.Context(), middleware.GetUserID(c), postID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Post liked successfully", result)
}

func (h *FeedHandler) UnlikePost(c *gin.Context) {
	postID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	result, err := h.likeService.Unlike(c.Request.Context(), middleware.GetUserID(c), postID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Post unliked successfully", result)
}

func (h *FeedHandler) GetFeed(c *gin.Context) {
	viewerID := middleware.GetUserID(c)

	// 拉黑关系在这里解析后传给 feed 服务
	blocked, err := h.relationships.BlockedIDs(c.Request.Context(), viewerID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	page, limit := pageParams(c)
	result, err := h.feedService.GetFeed(c.Request.Context(), viewerID, page, limit, blocked)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "Activity feed retrieved successfully", result)
}

func (h *FeedHandler) GetUserActivities(c *gin.Context) {
	actorID, ok := pathID(c, "id", h.logger)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	result, err := h.feedService.GetUserActivities(c.Request.Context(), actorID, page, limit)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	response.Success(c, "User activities retrieved successfully", result)
}

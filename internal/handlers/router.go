package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/social-feed/social-feed/internal/config"
	"github.com/social-feed/social-feed/internal/middleware"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/response"
)

// Router bundles everything the HTTP surface depends on.
type Router struct {
	Config      *config.Config
	Logger      *logger.Logger
	JWT         *middleware.JWTManager
	Users       middleware.UserFinder
	RateLimiter middleware.WindowCounter

	UserHandler  *UserHandler
	FeedHandler  *FeedHandler
	AdminHandler *AdminHandler
}

func (r *Router) Setup() *gin.Engine {
	if r.Config.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	// 只信任配置的代理，默认使用连接的远端地址
	if err := engine.SetTrustedProxies(r.Config.Server.TrustedProxies); err != nil {
		r.Logger.WithError(err).Warn("Invalid trusted proxies, ignoring X-Forwarded-For")
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.Logger))
	engine.Use(middleware.CORS(r.Config.Server.CORSOrigins))

	// 健康检查
	engine.GET("/health", Health)

	api := engine.Group("/api")
	if r.RateLimiter != nil {
		api.Use(middleware.RateLimit(r.RateLimiter, r.Config.RateLimit, r.Logger))
	}

	auth := middleware.NewJWTAuth(r.JWT, r.Users, r.Logger)
	r.UserHandler.RegisterAuthRoutes(api.Group("/auth"), auth)
	r.UserHandler.RegisterRoutes(api.Group("/users"), auth)
	r.FeedHandler.RegisterPostRoutes(api.Group("/posts"), auth)
	r.FeedHandler.RegisterActivityRoutes(api.Group("/activities"), auth)
	r.AdminHandler.RegisterRoutes(api.Group("/admin"), auth)

	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "Route not found")
	})

	return engine
}

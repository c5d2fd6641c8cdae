package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/social-feed/social-feed/internal/config"
	"github.com/social-feed/social-feed/internal/handlers"
	"github.com/social-feed/social-feed/internal/middleware"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/internal/services"
	"github.com/social-feed/social-feed/pkg/cache"
	"github.com/social-feed/social-feed/pkg/logger"
	"github.com/social-feed/social-feed/pkg/mongodb"
	"github.com/social-feed/social-feed/pkg/queue"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting social feed API server...")

	// 初始化数据库
	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// 自动迁移数据库表
	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	// 初始化Redis缓存
	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	// Redis 只用于限流与统计，不可用时限流按配置放行
	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Warn("Redis is unavailable")
	}

	// 初始化Kafka生产者
	var producer queue.Publisher = queue.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.ActivityEvents)
		defer kafkaProducer.Close()
		producer = kafkaProducer
	} else {
		logger.Warn("No Kafka brokers configured, activity events are not published")
	}

	// 动态日志存储
	var activityStore repository.ActivityStore = repository.NewActivityRepository(db.DB)
	if cfg.Activity.Store == config.ActivityStoreMongo {
		mongoDB, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to MongoDB")
		}
		defer mongodb.Disconnect(context.Background(), mongoDB)

		mongoStore := repository.NewMongoActivityRepository(mongoDB)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to create activity indexes")
		}
		activityStore = mongoStore
	}
	logger.WithField("store", cfg.Activity.Store).Info("Activity store ready")

	// 初始化仓库
	userRepo := repository.NewUserRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	blockRepo := repository.NewBlockRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)

	// 初始化服务
	recorder := services.NewActivityService(activityStore, userRepo, postRepo, producer, logger)
	userService := services.NewUserService(userRepo, followRepo, blockRepo, logger)
	relationships := services.NewRelationshipService(userRepo, followRepo, blockRepo, recorder, logger)
	postService := services.NewPostService(postRepo, blockRepo, recorder, logger)
	likeService := services.NewLikeService(postRepo, likeRepo, recorder, logger)
	feedService := services.NewFeedService(activityStore, userRepo, postRepo, cfg.Activity.DefaultLimit, logger)
	adminService := services.NewAdminService(userRepo, postRepo, likeRepo, recorder, logger)
	statsService := services.NewStatsService(redisClient)

	jwtManager := middleware.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireTime)

	// 初始化处理器与路由
	router := &handlers.Router{
		Config:       cfg,
		Logger:       logger,
		JWT:          jwtManager,
		Users:        userRepo,
		RateLimiter:  redisClient,
		UserHandler:  handlers.NewUserHandler(userService, relationships, jwtManager, logger),
		FeedHandler:  handlers.NewFeedHandler(postService, likeService, feedService, relationships, logger),
		AdminHandler: handlers.NewAdminHandler(adminService, statsService, logger),
	}

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

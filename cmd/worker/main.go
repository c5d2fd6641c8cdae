package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/social-feed/social-feed/internal/config"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/internal/services"
	"github.com/social-feed/social-feed/internal/workers"
	"github.com/social-feed/social-feed/pkg/cache"
	"github.com/social-feed/social-feed/pkg/logger"
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
	logger.Info("Starting social feed worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// 初始化Redis缓存
	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	// 定时对账
	cronManager := workers.NewCronManager(logger)
	reconcileJob := workers.NewReconcileJob(repository.NewCounterReconcileRepository(db.DB), cfg.Reconcile.BatchSize, logger)
	if err := cronManager.Register(cfg.Reconcile.Schedule, reconcileJob); err != nil {
		logger.WithError(err).Fatal("Failed to register reconcile job")
	}

	g, gctx := errgroup.WithContext(ctx)

	// 没有 broker 时只运行定时任务
	if len(cfg.Kafka.Brokers) > 0 {
		consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.ActivityEvents, cfg.Kafka.GroupID, logger)
		defer consumer.Close()

		activityWorker := workers.NewActivityWorker(consumer, services.NewStatsService(redisClient), logger)
		g.Go(func() error {
			return activityWorker.Start(gctx)
		})
	} else {
		logger.Warn("No Kafka brokers configured, activity stats are not updated")
	}

	g.Go(func() error {
		cronManager.Start()
		<-gctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		cronManager.Stop(stopCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Worker stopped with error")
		return
	}
	logger.Info("Worker exited")
}

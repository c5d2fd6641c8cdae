package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/social-feed/social-feed/internal/config"
	"github.com/social-feed/social-feed/internal/repository"
	"github.com/social-feed/social-feed/internal/services"
	"github.com/social-feed/social-feed/pkg/logger"
)

// createowner 创建唯一的 owner 账号，已存在时拒绝
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	username := flag.String("username", cfg.Owner.Username, "owner username")
	email := flag.String("email", cfg.Owner.Email, "owner email")
	password := flag.String("password", cfg.Owner.Password, "owner password")
	fullName := flag.String("full-name", cfg.Owner.FullName, "owner full name")
	flag.Parse()

	logger := logger.NewLogger(cfg.Log.Level)

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc := services.NewOwnerBootstrapService(repository.NewUserRepository(db.DB), logger)
	owner, err := svc.CreateOwner(ctx, &services.CreateOwnerRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
		FullName: *fullName,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create owner account")
	}

	logger.WithField("email", owner.Email).Info("Owner account created")
}

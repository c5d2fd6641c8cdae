package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/social-feed/social-feed/internal/config"
	"github.com/social-feed/social-feed/internal/models"
)

type Database struct {
	*gorm.DB
}

func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	dsn := cfg.DSN()

	logLevel := logger.Warn
	if cfg.LogSQL {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	return &Database{db}, nil
}

// Wrap adopts an already opened connection, e.g. sqlite in tests.
func Wrap(db *gorm.DB) *Database {
	return &Database{db}
}

func (db *Database) AutoMigrate() error {
	return db.DB.AutoMigrate(models.All()...)
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsDuplicate reports a unique index violation (requires TranslateError).
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// adjustCounter moves column by delta without going below zero.
func adjustCounter(tx *gorm.DB, model interface{}, id uuid.UUID, column string, delta int) error {
	expr := gorm.Expr(fmt.Sprintf("CASE WHEN %s + ? < 0 THEN 0 ELSE %s + ? END", column, column), delta, delta)
	if err := tx.Model(model).Where("id = ?", id).UpdateColumn(column, expr).Error; err != nil {
		return fmt.Errorf("failed to adjust %s: %w", column, err)
	}
	return nil
}

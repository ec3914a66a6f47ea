package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thereayou/microblog/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect открывает PostgreSQL по DSN и применяет миграции
func Connect(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return Open(postgres.Open(dsn), 25)
}

// Open подключается через произвольный диалект gorm.
// maxConns > 0 ограничивает пул до применения миграций.
func Open(dialector gorm.Dialector, maxConns int) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if maxConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	err = db.AutoMigrate(&models.User{}, &models.Post{}, &models.Follow{})
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return NewDatabase(db), nil
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}


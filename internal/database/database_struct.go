package database

import (
	"context"

	"gorm.io/gorm"
)

// Database это хранилище пользователей, подписок и постов поверх gorm
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// conn возвращает сессию, привязанную к контексту запроса
func (d *Database) conn(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// transaction выполняет fn в одной транзакции и переводит ошибку в таксономию пакета
func (d *Database) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return translateError(d.conn(ctx).Transaction(fn))
}

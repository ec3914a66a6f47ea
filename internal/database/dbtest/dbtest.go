// Package dbtest поднимает изолированную SQLite базу в памяти для тестов.
package dbtest

import (
	"testing"

	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

// New возвращает пустую базу со схемой; закрывается по окончании теста
func New(t testing.TB) *database.Database {
	t.Helper()

	models.PasswordCost = bcrypt.MinCost

	// Каждое соединение к :memory: видит свою базу, поэтому пул из одного соединения
	db, err := database.Open(sqlite.Open("file::memory:?_foreign_keys=on"), 1)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

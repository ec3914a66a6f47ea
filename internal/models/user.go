package models

import (
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrNoPasswordHash возвращается, когда у пользователя нет сохранённого хеша
var ErrNoPasswordHash = errors.New("user has no password hash")

// PasswordCost задаёт стоимость bcrypt; тесты понижают её
var PasswordCost = bcrypt.DefaultCost

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	Email        string    `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	AboutMe      string    `gorm:"size:140"`
	LastSeen     *time.Time
	CreatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail приводит email к виду, в котором он хранится и сравнивается
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword заменяет хеш пароля новым bcrypt хешем
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword сравнивает пароль с хешем. Несовпадение не является ошибкой.
func (u *User) CheckPassword(password string) (bool, error) {
	if u.PasswordHash == "" {
		return false, ErrNoPasswordHash
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}

// Avatar строит URL gravatar для заданного размера в пикселях
func (u *User) Avatar(size int) string {
	digest := md5.Sum([]byte(NormalizeEmail(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", digest, size)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxPostLength = 140

type Post struct {
	ID             uint      `gorm:"primaryKey"`
	Body           string    `gorm:"size:140;not null"`
	Timestamp      time.Time `gorm:"index;not null"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_posts_author_idempotency,priority:1"`
	IdempotencyKey *string   `gorm:"size:64;uniqueIndex:idx_posts_author_idempotency,priority:2"`

	// Связи
	Author User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	p.Timestamp = p.Timestamp.UTC()
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow описывает направленное ребро графа подписок: Follower читает посты Followed
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	FollowedID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time

	// Связи
	Follower User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string { return "follows" }

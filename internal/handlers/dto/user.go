package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/models"
)

const (
	AvatarSizeSmall = 36
	AvatarSizeLarge = 128
)

// UserInfo краткая карточка пользователя
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
}

type Profile struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	AboutMe        string     `json:"about_me"`
	AvatarURL      string     `json:"avatar_url"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	IsFollowing    bool       `json:"is_following"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=64"`
	AboutMe  string `json:"about_me" binding:"max=140"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72"`
}

type UserListResponse struct {
	Items []UserInfo `json:"items"`
	Pagination
}

func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.Avatar(AvatarSizeSmall),
	}
}

func NewProfile(u *models.User) Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		AboutMe:   u.AboutMe,
		AvatarURL: u.Avatar(AvatarSizeLarge),
		LastSeen:  u.LastSeen,
		CreatedAt: u.CreatedAt,
	}
}

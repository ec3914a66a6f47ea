package dto

import "time"

type AuthResponse struct {
	Token          string    `json:"token"`
	TokenExpiresAt time.Time `json:"tokenExpiresAt"`
	User           UserInfo  `json:"user"`
}

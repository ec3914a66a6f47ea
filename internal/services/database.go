package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/models"
)

// DatabaseService описывает операции хранилища, которые нужны обработчикам.
// Реализуется *database.Database.
type DatabaseService interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username, aboutMe string) (*models.User, error)
	SetPassword(ctx context.Context, id uuid.UUID, password string) error
	UpdateLastSeen(ctx context.Context, id uuid.UUID) error

	Follow(ctx context.Context, followerID, followedID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	FollowedCount(ctx context.Context, userID uuid.UUID) (int64, error)
	FollowerCount(ctx context.Context, userID uuid.UUID) (int64, error)
	FollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListFollowed(ctx context.Context, userID uuid.UUID, page database.Page) (*database.UserPage, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, page database.Page) (*database.UserPage, error)

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	FollowedPosts(ctx context.Context, userID uuid.UUID, page database.Page) (*database.PostPage, error)
	UserPosts(ctx context.Context, userID uuid.UUID, page database.Page) (*database.PostPage, error)
	ExplorePosts(ctx context.Context, page database.Page) (*database.PostPage, error)
}

var _ DatabaseService = (*database.Database)(nil)

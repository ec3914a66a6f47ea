package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/models"
	"github.com/thereayou/microblog/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token is blacklisted")
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (uuid.UUID, error)
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	// Login: username или email
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type authService struct {
	db     DatabaseService
	jwt    *auth.JWTManager
	redis  *redis.Client
	logger *slog.Logger
}

func NewAuthService(db DatabaseService, jwtMgr *auth.JWTManager, rdb *redis.Client, logger *slog.Logger) AuthService {
	return &authService{db: db, jwt: jwtMgr, redis: rdb, logger: logger}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", database.ErrInvalidInput, err)
	}

	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	return s.issue(user)
}

// Login проверяет пароль, обновляет last_seen и выдаёт токен
func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.db.FindUserByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := user.CheckPassword(req.Password)
	if err != nil {
		s.logger.Error("stored password hash is unusable", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := s.db.UpdateLastSeen(ctx, user.ID); err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issue(user)
}

// Logout ставит jti токена в черный список в Redis до истечения
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.Verify(token)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, blacklistKey(claims.ID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	s.logger.Info("user logged out", "user_id", claims.Subject)
	return nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.jwt.Verify(token)
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := s.redis.Exists(ctx, blacklistKey(claims.ID)).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("check blacklist: %w", err)
	}
	if exists > 0 {
		return uuid.Nil, ErrTokenRevoked
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, auth.ErrInvalidToken
	}
	return userID, nil
}

func (s *authService) issue(user *models.User) (*AuthResponse, error) {
	token, err := s.jwt.Generate(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwt.Duration()),
	}, nil
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

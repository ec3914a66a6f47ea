package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/database/dbtest"
	"github.com/thereayou/microblog/pkg/auth"
)

func newTestAuthService(t *testing.T) (AuthService, *database.Database, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := dbtest.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(db, auth.NewJWTManager("test-secret", time.Hour), rdb, log), db, mr
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "susan", Email: "Susan@Example.com", Password: "cat-cat"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" || resp.User.Email != "susan@example.com" {
		t.Fatalf("unexpected register response: %+v", resp)
	}

	for _, login := range []string{"susan", "SUSAN@example.com"} {
		resp, err := svc.Login(ctx, LoginRequest{Login: login, Password: "cat-cat"})
		if err != nil {
			t.Fatalf("login %q: %v", login, err)
		}
		userID, err := svc.ValidateToken(ctx, resp.Token)
		if err != nil || userID != resp.User.ID {
			t.Fatalf("validate token: %v %v", userID, err)
		}
	}

	stored, _ := db.GetUserByUsername(ctx, "susan")
	if stored.LastSeen == nil {
		t.Fatalf("login must update last_seen")
	}
}

func TestRegisterConflict(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	req := RegisterRequest{Username: "john", Email: "john@example.com", Password: "secret"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, database.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()
	_, _ = svc.Register(ctx, RegisterRequest{Username: "john", Email: "john@example.com", Password: "secret"})

	tests := []LoginRequest{
		{Login: "john", Password: "wrong"},
		{Login: "nobody", Password: "secret"},
	}
	for _, req := range tests {
		if _, err := svc.Login(ctx, req); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%+v: expected ErrInvalidCredentials, got %v", req, err)
		}
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	svc, _, mr := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "john", Email: "john@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ValidateToken(ctx, resp.Token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	// Запись живёт не дольше самого токена
	mr.FastForward(2 * time.Hour)
	if len(mr.Keys()) != 0 {
		t.Fatalf("blacklist entry must expire, keys: %v", mr.Keys())
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	if _, err := svc.ValidateToken(context.Background(), "garbage"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

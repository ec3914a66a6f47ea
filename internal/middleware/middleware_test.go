package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/services"
	"github.com/thereayou/microblog/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authServiceMock struct {
	services.AuthService
	validateFunc func(ctx context.Context, token string) (uuid.UUID, error)
}

func (m authServiceMock) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	return m.validateFunc(ctx, token)
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	svc := authServiceMock{validateFunc: func(_ context.Context, token string) (uuid.UUID, error) {
		switch token {
		case "good":
			return userID, nil
		case "revoked":
			return uuid.Nil, services.ErrTokenRevoked
		case "redis-down":
			return uuid.Nil, errors.New("connection refused")
		default:
			return uuid.Nil, auth.ErrInvalidToken
		}
	}}

	r := gin.New()
	r.GET("/me", AuthMiddleware(svc), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c).String())
	})

	tests := []struct {
		header string
		status int
	}{
		{"Bearer good", http.StatusOK},
		{"", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer revoked", http.StatusUnauthorized},
		{"Bearer redis-down", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.status {
			t.Fatalf("%q: status %d, want %d", tt.header, w.Code, tt.status)
		}
		if tt.status == http.StatusOK && w.Body.String() != userID.String() {
			t.Fatalf("unexpected user id %q", w.Body.String())
		}
	}
}

func TestWSAuthMiddlewareAcceptsQueryToken(t *testing.T) {
	userID := uuid.New()
	svc := authServiceMock{validateFunc: func(_ context.Context, token string) (uuid.UUID, error) {
		if token == "good" {
			return userID, nil
		}
		return uuid.Nil, auth.ErrInvalidToken
	}}

	r := gin.New()
	r.GET("/ws", WSAuthMiddleware(svc), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for target, status := range map[string]int{
		"/ws?token=good": http.StatusNoContent,
		"/ws?token=bad":  http.StatusUnauthorized,
		"/ws":            http.StatusUnauthorized,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != status {
			t.Fatalf("%s: status %d, want %d", target, w.Code, status)
		}
	}
}

type lastSeenStub struct {
	calls []uuid.UUID
	err   error
}

func (s *lastSeenStub) UpdateLastSeen(_ context.Context, id uuid.UUID) error {
	s.calls = append(s.calls, id)
	return s.err
}

func TestLastSeen(t *testing.T) {
	userID := uuid.New()
	stub := &lastSeenStub{err: errors.New("db down")}

	r := gin.New()
	r.GET("/anon", LastSeen(stub, newLogger()), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/auth", func(c *gin.Context) { c.Set(UserIDKey, userID) }, LastSeen(stub, newLogger()),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/anon", "/auth"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, w.Code)
		}
	}
	if len(stub.calls) != 1 || stub.calls[0] != userID {
		t.Fatalf("unexpected calls %v", stub.calls)
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	rl := NewRateLimiter(rdb, newLogger())
	r := gin.New()
	r.POST("/login", rl.Limit("login", 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") == "" {
			t.Fatalf("missing Retry-After header")
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %v", codes)
	}

	mr.FastForward(2 * time.Minute)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("window must reset, got %d", w.Code)
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	rl := NewRateLimiter(rdb, newLogger())
	if ok, _ := rl.Allow(context.Background(), "k", 1, time.Minute); !ok {
		t.Fatalf("limiter must allow requests when redis is unavailable")
	}
}

package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.Generate("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}
	if time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatalf("expected expiry in future")
	}

	other, _ := m.Generate("user-1")
	otherClaims, _ := m.Verify(other)
	if otherClaims.ID == claims.ID {
		t.Fatalf("jti must be unique per token")
	}
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, _ := NewJWTManager("other", time.Hour).Generate("user-1")
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	expired, _ := NewJWTManager("secret", -time.Minute).Generate("user-1")
	if _, err := m.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, err := ExtractTokenFromHeader(r)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("%q: got %q, %v", tt.header, got, err)
		}
	}
}

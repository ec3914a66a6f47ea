package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type lastSeenUpdater interface {
	UpdateLastSeen(ctx context.Context, id uuid.UUID) error
}

// LastSeen отмечает время последней активности аутентифицированного пользователя.
// Ошибка обновления не прерывает запрос.
func LastSeen(db lastSeenUpdater, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get(UserIDKey); ok {
			userID := v.(uuid.UUID)
			if err := db.UpdateLastSeen(c.Request.Context(), userID); err != nil {
				logger.Warn("update last seen failed", "user_id", userID, "error", err)
			}
		}
		c.Next()
	}
}

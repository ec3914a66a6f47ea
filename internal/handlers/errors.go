package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/services"
	"github.com/thereayou/microblog/pkg/auth"
)

// respondError переводит ошибки хранилища и сервисов в HTTP ответ
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, database.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, services.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case errors.Is(err, database.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("transient failure", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, retry later"})
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// pageFromQuery читает ?page= и ?per_page=
func pageFromQuery(c *gin.Context, defaultSize int) database.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("per_page"))
	return database.NewPage(number, size, defaultSize)
}

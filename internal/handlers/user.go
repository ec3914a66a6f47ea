package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/handlers/dto"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/models"
	"github.com/thereayou/microblog/internal/services"
)

type UserHandler struct {
	db       services.DatabaseService
	logger   *slog.Logger
	pageSize int
}

func NewUserHandler(db services.DatabaseService, logger *slog.Logger, pageSize int) *UserHandler {
	return &UserHandler{db: db, logger: logger, pageSize: pageSize}
}

// GetMe возвращает профиль текущего пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	user, err := h.db.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	profile, err := h.profile(c.Request.Context(), user, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	profile.Email = user.Email
	c.JSON(http.StatusOK, profile)
}

// UpdateMe меняет username и about_me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.UpdateProfile(c.Request.Context(), userID, req.Username, req.AboutMe)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	profile := dto.NewProfile(user)
	profile.Email = user.Email
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if ok, err := user.CheckPassword(req.CurrentPassword); err != nil || !ok {
		respondError(c, h.logger, services.ErrInvalidCredentials)
		return
	}

	if err := h.db.SetPassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUser возвращает профиль пользователя по username
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.db.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	profile, err := h.profile(c.Request.Context(), user, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UserPosts(c *gin.Context) {
	user, err := h.db.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page, err := h.db.UserPosts(c.Request.Context(), user.ID, pageFromQuery(c, h.pageSize))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostPageResponse(page))
}

func (h *UserHandler) Followers(c *gin.Context) {
	user, err := h.db.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page, err := h.db.ListFollowers(c.Request.Context(), user.ID, pageFromQuery(c, h.pageSize))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(page))
}

func (h *UserHandler) Following(c *gin.Context) {
	user, err := h.db.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	page, err := h.db.ListFollowed(c.Request.Context(), user.ID, pageFromQuery(c, h.pageSize))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(page))
}

// Follow подписывает текущего пользователя на :username
func (h *UserHandler) Follow(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	target, err := h.db.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.db.Follow(c.Request.Context(), userID, target.ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("user followed", "follower_id", userID, "followed_id", target.ID)

	c.JSON(http.StatusOK, gin.H{"following": true, "username": target.Username})
}

// Unfollow отписывает текущего пользователя от :username
func (h *UserHandler) Unfollow(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	target, err := h.db.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.db.Unfollow(c.Request.Context(), userID, target.ID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("user unfollowed", "follower_id", userID, "followed_id", target.ID)

	c.JSON(http.StatusOK, gin.H{"following": false, "username": target.Username})
}

func (h *UserHandler) profile(ctx context.Context, user *models.User, viewerID uuid.UUID) (dto.Profile, error) {
	profile := dto.NewProfile(user)

	var err error
	if profile.FollowersCount, err = h.db.FollowerCount(ctx, user.ID); err != nil {
		return profile, err
	}
	if profile.FollowingCount, err = h.db.FollowedCount(ctx, user.ID); err != nil {
		return profile, err
	}
	if viewerID != user.ID {
		if profile.IsFollowing, err = h.db.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return profile, err
		}
	}
	return profile, nil
}

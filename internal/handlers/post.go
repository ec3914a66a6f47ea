package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/microblog/internal/handlers/dto"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/models"
	"github.com/thereayou/microblog/internal/services"
	"github.com/thereayou/microblog/internal/websocket"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// FeedPublisher доставляет новые посты подключённым подписчикам
type FeedPublisher interface {
	Publish(userIDs []uuid.UUID, msgType websocket.MessageType, data interface{}) error
}

type PostHandler struct {
	db       services.DatabaseService
	feed     FeedPublisher
	logger   *slog.Logger
	pageSize int
}

func NewPostHandler(db services.DatabaseService, feed FeedPublisher, logger *slog.Logger, pageSize int) *PostHandler {
	return &PostHandler{db: db, feed: feed, logger: logger, pageSize: pageSize}
}

// CreatePost публикует пост текущего пользователя.
// Повтор с тем же Idempotency-Key возвращает ранее созданный пост.
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := &models.Post{Body: req.Body, UserID: userID}
	if key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)); key != "" {
		if len(key) > 64 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key must not exceed 64 characters"})
			return
		}
		post.IdempotencyKey = &key
	}

	if err := h.db.CreatePost(c.Request.Context(), post); err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := dto.NewPostResponse(post)
	h.publish(c, post, resp)

	c.JSON(http.StatusCreated, resp)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	post, err := h.db.GetPost(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostResponse(post))
}

// Timeline отдаёт свои посты и посты тех, на кого подписан, от новых к старым
func (h *PostHandler) Timeline(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	page, err := h.db.FollowedPosts(c.Request.Context(), userID, pageFromQuery(c, h.pageSize))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostPageResponse(page))
}

func (h *PostHandler) Explore(c *gin.Context) {
	page, err := h.db.ExplorePosts(c.Request.Context(), pageFromQuery(c, h.pageSize))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostPageResponse(page))
}

// publish рассылает пост автору и его подписчикам; сбой рассылки не влияет на ответ
func (h *PostHandler) publish(c *gin.Context, post *models.Post, resp dto.PostResponse) {
	if h.feed == nil {
		return
	}

	followers, err := h.db.FollowerIDs(c.Request.Context(), post.UserID)
	if err != nil {
		h.logger.Warn("load followers for feed failed", "post_id", post.ID, "error", err)
		return
	}

	recipients := append(followers, post.UserID)
	if err := h.feed.Publish(recipients, websocket.TypeNewPost, resp); err != nil {
		h.logger.Warn("publish post failed", "post_id", post.ID, "error", err)
	}
}

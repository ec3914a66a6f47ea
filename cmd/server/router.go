package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/microblog/internal/config"
	"github.com/thereayou/microblog/internal/handlers"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/services"
	"github.com/thereayou/microblog/internal/websocket"
)

// Deps содержит всё, что нужно маршрутам; собирается в NewServer или в тестах
type Deps struct {
	Config  config.Config
	Logger  *slog.Logger
	DB      services.DatabaseService
	Auth    services.AuthService
	Hub     *websocket.Hub
	Limiter *middleware.RateLimiter
	Health  func(ctx context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}

	authH := handlers.NewAuthHandler(d.Auth, d.Logger)
	userH := handlers.NewUserHandler(d.DB, d.Logger, d.Config.PostsPerPage)
	postH := handlers.NewPostHandler(d.DB, d.Hub, d.Logger, d.Config.PostsPerPage)
	wsH := handlers.NewWebSocketHandler(d.Hub, d.Logger, d.Config.WSAllowedOrigins)

	APIEndpoints(router, d, authH, userH, postH, wsH)
	return router
}

func APIEndpoints(r *gin.Engine, d Deps, authH *handlers.AuthHandler, userH *handlers.UserHandler,
	postH *handlers.PostHandler, wsH *handlers.WebSocketHandler) {
	r.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.AuthMiddleware(d.Auth)

	// Auth endpoints
	auth := r.Group("/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", d.Limiter.Limit("login", d.Config.LoginRateLimit, d.Config.LoginRateWindow), authH.Login)
		auth.POST("/logout", requireAuth, authH.Logout)
	}

	// API endpoints
	api := r.Group("/api/v1", requireAuth, middleware.LastSeen(d.DB, d.Logger))
	{
		api.GET("/users/me", userH.GetMe)
		api.PUT("/users/me", userH.UpdateMe)
		api.PUT("/users/me/password", userH.ChangePassword)
		api.GET("/users/:username", userH.GetUser)
		api.GET("/users/:username/posts", userH.UserPosts)
		api.GET("/users/:username/followers", userH.Followers)
		api.GET("/users/:username/following", userH.Following)
		api.POST("/users/:username/follow", userH.Follow)
		api.DELETE("/users/:username/follow", userH.Unfollow)

		api.POST("/posts", postH.CreatePost)
		api.GET("/posts/:id", postH.GetPost)
		api.GET("/timeline", postH.Timeline)
		api.GET("/explore", postH.Explore)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(d.Auth), wsH.HandleWebSocket)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/microblog/internal/config"
	"github.com/thereayou/microblog/internal/database"
	"github.com/thereayou/microblog/internal/middleware"
	"github.com/thereayou/microblog/internal/services"
	"github.com/thereayou/microblog/internal/websocket"
	"github.com/thereayou/microblog/pkg/auth"
)

// Server держит все зависимости приложения, они создаются здесь и передаются явно
type Server struct {
	Config     config.Config
	Logger     *slog.Logger
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *websocket.Hub
}

func NewServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		db.Close()
		rdb.Close()
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	hub := websocket.NewHub(logger)

	router := NewRouter(Deps{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Auth:    services.NewAuthService(db, jwtMgr, rdb, logger),
		Hub:     hub,
		Limiter: middleware.NewRateLimiter(rdb, logger),
		Health: func(ctx context.Context) error {
			if err := db.Ping(ctx); err != nil {
				return err
			}
			return rdb.Ping(ctx).Err()
		},
	})

	return &Server{
		Config:     cfg,
		Logger:     logger,
		Router:     router,
		DB:         db,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливается
func (s *Server) Run(ctx context.Context) error {
	go s.Hub.Run()

	srv := &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		s.Logger.Info("server starting", "port", s.Config.Port)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.Hub.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error("graceful shutdown failed", "error", err)
	}
	s.Redis.Close()
	s.DB.Close()

	s.Logger.Info("server stopped")
	return nil
}

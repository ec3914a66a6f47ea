package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thereayou/microblog/internal/config"
	"github.com/thereayou/microblog/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("microblog", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := NewServer(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

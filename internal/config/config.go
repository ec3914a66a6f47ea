package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	DatabaseURL string
	RedisURL    string

	JWTSecret string
	JWTTTL    time.Duration

	PostsPerPage     int
	LoginRateLimit   int
	LoginRateWindow  time.Duration
	WSAllowedOrigins []string
}

// Load читает .env.local / .env и переменные окружения
func Load() Config {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:        getEnv("JWT_SECRET", "you-will-never-guess"),
		JWTTTL:           time.Duration(getEnvAsInt("JWT_TTL_HOURS", 24)) * time.Hour,
		PostsPerPage:     getEnvAsInt("POSTS_PER_PAGE", 25),
		LoginRateLimit:   getEnvAsInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:  time.Duration(getEnvAsInt("LOGIN_RATE_WINDOW_SECONDS", 60)) * time.Second,
		WSAllowedOrigins: getEnvAsList("WS_ALLOWED_ORIGINS"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

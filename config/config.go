package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings. The signing secret is the
// only hard requirement: it anchors the whole token trust model and must
// be provisioned out of band, never defaulted.
type Config struct {
	Port          string
	DatabasePath  string
	MigrationsDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads configuration from the environment, loading a .env file first
// if one is present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	return &Config{
		Port:            envOr("PORT", "8080"),
		DatabasePath:    envOr("DATABASE_PATH", "./auth_service.db"),
		MigrationsDir:   envOr("MIGRATIONS_DIR", "./database/migrations"),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         envIntOr("REDIS_DB", 0),
		JWTSecret:       secret,
		TokenTTL:        time.Duration(envIntOr("TOKEN_TTL_MINUTES", 30)) * time.Minute,
		RateLimitMax:    envIntOr("RATE_LIMIT_MAX", 5),
		RateLimitWindow: time.Duration(envIntOr("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

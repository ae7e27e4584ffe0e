package server

import (
	"context"
	"net/http"
	"os"

	"auth-service/auth"
	cachepackage "auth-service/cache"
	"auth-service/config"
	"auth-service/database"
	"auth-service/handlers"
	"auth-service/ratelimit"
	"auth-service/store"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// checkAuth rejects everything at the server layer. Authentication happens
// inside the handlers so that 401 bodies carry this service's envelope and
// messages; routes are registered with AuthType "none" accordingly.
func checkAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	return false, httpserver.RequestAuth{}
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Auth Service...")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	// Initialize database
	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache(cfg)
	defer cache.Close()

	// Wire components: hasher, token service, limiter, user store, handlers
	hasher := auth.NewHasher(auth.DefaultBcryptCost)
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)
	users := store.NewUserStore(dbConn, cache)
	authHandler := handlers.NewAuthHandler(users, hasher, tokens, limiter)

	// Create HTTP server
	server := httpserver.New(cfg.Port, checkAuth)

	// Register routes; every /auth route passes the rate limiter first
	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "auth-service"}`))
	}))

	server.Register(httpserver.Route{
		Name:     "Signup",
		Method:   "POST",
		Path:     "/auth/signup",
		AuthType: "none",
	}, authHandler.RateLimited("signup", authHandler.Signup))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/auth/login",
		AuthType: "none",
	}, authHandler.RateLimited("login", authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "Profile",
		Method:   "GET",
		Path:     "/auth/profile",
		AuthType: "none",
	}, authHandler.RateLimited("profile", authHandler.Profile))

	server.Register(httpserver.Route{
		Name:     "AdminOnly",
		Method:   "GET",
		Path:     "/auth/admin-only",
		AuthType: "none",
	}, authHandler.RateLimited("admin-only", authHandler.AdminOnly))

	server.Register(httpserver.Route{
		Name:     "UpdateProfile",
		Method:   "PUT",
		Path:     "/auth/users/{id}/profile",
		AuthType: "none",
	}, authHandler.RateLimited("update-profile", authHandler.UpdateProfile))

	server.Register(httpserver.Route{
		Name:     "ChangePassword",
		Method:   "POST",
		Path:     "/auth/users/{id}/change-password",
		AuthType: "none",
	}, authHandler.RateLimited("change-password", authHandler.ChangePassword))

	server.Register(httpserver.Route{
		Name:     "ListUsers",
		Method:   "GET",
		Path:     "/auth/users",
		AuthType: "none",
	}, authHandler.RateLimited("list-users", authHandler.ListUsers))

	logger.Info("Auth Service started on port " + cfg.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints under /auth")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}

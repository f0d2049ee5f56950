package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scenes-server/internal/auth"
	"scenes-server/internal/generate"
	"scenes-server/internal/middleware"
	"scenes-server/internal/scene"
	"scenes-server/internal/server"
	"scenes-server/internal/shared/config"
	"scenes-server/internal/shared/database"
	"scenes-server/internal/shared/logger"
	"scenes-server/internal/shared/redis"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()
	log := slog.With("component", "main")

	db, err := database.Connect()
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cache, err := redis.Connect()
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	sceneRepo := scene.NewRepository(db, slog.Default())
	sceneService := scene.NewService(sceneRepo, cache, slog.Default())
	generateService := generate.NewService(sceneService, slog.Default())

	authRepo := auth.NewRepository(db, slog.Default())
	authService := auth.NewService(authRepo, slog.Default())
	githubProvider := auth.NewGitHubProvider()

	routes := server.NewRoutes(db, cache, sceneService, generateService, authService, githubProvider, slog.Default())
	mux := routes.Setup()

	cfg := config.GlobalConfig
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		TrustProxy:        cfg.RateLimit.TrustProxy,
	})
	corsMiddleware := middleware.NewCORS()

	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced server shutdown", "error", err)
	}

	log.Info("Server stopped")
}

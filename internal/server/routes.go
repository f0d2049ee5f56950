package server

import (
	"log/slog"
	"net/http"

	"scenes-server/internal/auth"
	authHandlers "scenes-server/internal/auth/handlers"
	"scenes-server/internal/generate"
	generateHandlers "scenes-server/internal/generate/handlers"
	"scenes-server/internal/middleware"
	"scenes-server/internal/scene"
	sceneHandlers "scenes-server/internal/scene/handlers"
	serverHandlers "scenes-server/internal/server/handlers"
	"scenes-server/internal/shared/database"
	"scenes-server/internal/shared/redis"
)

type Routes struct {
	db              *database.DB
	cache           *redis.Client
	sceneService    *scene.Service
	generateService *generate.Service
	authService     *auth.Service
	githubProvider  *auth.GitHubProvider
	logger          *slog.Logger
}

func NewRoutes(
	db *database.DB,
	cache *redis.Client,
	sceneService *scene.Service,
	generateService *generate.Service,
	authService *auth.Service,
	githubProvider *auth.GitHubProvider,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:              db,
		cache:           cache,
		sceneService:    sceneService,
		generateService: generateService,
		authService:     authService,
		githubProvider:  githubProvider,
		logger:          logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache)
	sceneHandler := sceneHandlers.NewSceneHandler(r.sceneService, r.logger)
	generateHandler := generateHandlers.NewGenerateHandler(r.generateService, r.logger)
	githubAuthHandler := authHandlers.NewGitHubAuthHandler(r.githubProvider, r.authService)
	meHandler := authHandlers.NewMeHandler()
	logoutHandler := authHandlers.NewLogoutHandler()

	// Public endpoints
	mux.Handle("GET /api/health", healthHandler)
	mux.HandleFunc("GET /api/auth/github/login", githubAuthHandler.HandleLogin)
	mux.HandleFunc("GET /api/auth/github/callback", githubAuthHandler.HandleCallback)
	mux.Handle("POST /api/auth/logout", logoutHandler)

	// Protected endpoints (authenticated users)
	mux.Handle("GET /api/me", middleware.JWTMiddleware(meHandler))
	mux.Handle("POST /api/scenes/generate", middleware.JWTMiddleware(http.HandlerFunc(generateHandler.Generate)))
	mux.Handle("GET /api/scenes", middleware.JWTMiddleware(http.HandlerFunc(sceneHandler.ListScenes)))
	mux.Handle("GET /api/scenes/{id}", middleware.JWTMiddleware(http.HandlerFunc(sceneHandler.GetScene)))
	mux.Handle("DELETE /api/scenes/{id}", middleware.JWTMiddleware(http.HandlerFunc(sceneHandler.DeleteScene)))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("GET /api/admin/scenes", middleware.RequireAdmin(http.HandlerFunc(sceneHandler.AdminListScenes)))
	mux.Handle("DELETE /api/admin/scenes/{id}", middleware.RequireAdmin(http.HandlerFunc(sceneHandler.AdminDeleteScene)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/health", "/api/auth/github/login", "/api/auth/github/callback", "/api/auth/logout"},
		"protected_endpoints", []string{"/api/me", "/api/scenes/generate", "/api/scenes"},
		"admin_endpoints", []string{"/api/admin/scenes"},
	)

	return mux
}

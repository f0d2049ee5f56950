package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"scenes-server/internal/shared/database"
	"scenes-server/internal/shared/redis"
	"scenes-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
}

type HealthHandler struct {
	db    *database.DB
	cache *redis.Client
}

func NewHealthHandler(db *database.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	dbStatus := "disconnected"
	if err := h.db.Ping(); err == nil {
		dbStatus = "connected"
	} else {
		logger.Warn("Database ping failed", "error", err)
	}

	cacheStatus := "disabled"
	if h.cache != nil && h.cache.Client != nil {
		cacheStatus = "disconnected"
		if err := h.cache.Ping(r.Context()).Err(); err == nil {
			cacheStatus = "connected"
		} else {
			logger.Warn("Cache ping failed", "error", err)
		}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Cache:     cacheStatus,
	}

	response.Success(w, http.StatusOK, resp)
}

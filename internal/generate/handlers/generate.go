package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"scenes-server/internal/generate"
	"scenes-server/internal/middleware"
	"scenes-server/internal/shared/errors"
	"scenes-server/internal/shared/response"
)

type GenerateHandler struct {
	service *generate.Service
	logger  *slog.Logger
}

func NewGenerateHandler(service *generate.Service, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		service: service,
		logger:  logger,
	}
}

// Generate handles POST /api/scenes/generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "generate_scene")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req generate.GenerateRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	stored, err := h.service.Generate(r.Context(), claims.UserID, &req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, stored)
}

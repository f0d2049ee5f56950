package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"scenes-server/internal/middleware"
	"scenes-server/internal/scene"
	"scenes-server/internal/shared/errors"
	"scenes-server/internal/shared/response"
)

type SceneHandler struct {
	service *scene.Service
	logger  *slog.Logger
}

func NewSceneHandler(service *scene.Service, logger *slog.Logger) *SceneHandler {
	return &SceneHandler{
		service: service,
		logger:  logger,
	}
}

// ListScenes handles GET /api/scenes
func (h *SceneHandler) ListScenes(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "list_scenes")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	logger.Debug("Listing scenes", "user_id", claims.UserID)

	scenes, err := h.service.ListScenes(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if scenes == nil {
		scenes = []scene.StoredScene{}
	}

	response.Success(w, http.StatusOK, scenes)
}

// GetScene handles GET /api/scenes/{id}
func (h *SceneHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_scene")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	id, err := sceneID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger = logger.With("scene_id", id)
	logger.Debug("Getting scene")

	stored, err := h.service.GetScene(r.Context(), id, claims.UserID, claims.IsAdmin())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, stored)
}

// DeleteScene handles DELETE /api/scenes/{id}
func (h *SceneHandler) DeleteScene(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "delete_scene")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	id, err := sceneID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger = logger.With("scene_id", id)
	logger.Info("Deleting scene")

	if err := h.service.DeleteScene(r.Context(), id, claims.UserID, claims.IsAdmin()); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminListScenes handles GET /api/admin/scenes
func (h *SceneHandler) AdminListScenes(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "admin_list_scenes")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	logger.Debug("Listing all scenes", "user_id", claims.UserID)

	scenes, err := h.service.ListAllScenes(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if scenes == nil {
		scenes = []scene.StoredScene{}
	}

	response.Success(w, http.StatusOK, scenes)
}

// AdminDeleteScene handles DELETE /api/admin/scenes/{id}
func (h *SceneHandler) AdminDeleteScene(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "admin_delete_scene")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	id, err := sceneID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger = logger.With("scene_id", id)
	logger.Info("Deleting scene as admin")

	if err := h.service.DeleteScene(r.Context(), id, claims.UserID, true); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func sceneID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.Validation("scene ID is required")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.Validationf("invalid scene ID %q", idStr)
	}

	return id, nil
}

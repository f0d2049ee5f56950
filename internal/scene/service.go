package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"scenes-server/internal/shared/config"
	"scenes-server/internal/shared/errors"
	"scenes-server/internal/shared/redis"

	goredis "github.com/redis/go-redis/v9"
)

type Service struct {
	repo   *Repository
	cache  *redis.Client
	logger *slog.Logger
}

// NewService wires the scene storage service. The cache client may be nil;
// scenes are then served from Postgres alone.
func NewService(repo *Repository, cache *redis.Client, logger *slog.Logger) *Service {
	logger.Debug("Initializing scene service")

	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// SaveScene persists a freshly generated scene, fills in its ID and
// creation time, and caches the document JSON.
func (s *Service) SaveScene(ctx context.Context, scene *StoredScene) error {
	if err := s.repo.CreateScene(ctx, scene); err != nil {
		return errors.WrapInternal("failed to save scene", err)
	}

	s.cacheStore(ctx, scene)
	return nil
}

// GetScene loads a scene with its document, preferring the cache.
// Requesters only see their own scenes; admins see everything. Scenes owned
// by someone else read as not found.
func (s *Service) GetScene(ctx context.Context, id, requesterID int64, isAdmin bool) (*StoredScene, error) {
	logger := s.logger.With(
		"component", "scene_service",
		"operation", "get",
		"scene_id", id,
		"requester_id", requesterID,
	)
	logger.Debug("Getting scene")

	scene := s.cacheLoad(ctx, id)
	if scene == nil {
		var err error
		scene, err = s.repo.GetScene(ctx, id, nil)
		if err != nil {
			return nil, errors.WrapInternal("failed to load scene", err)
		}
		if scene != nil {
			s.cacheStore(ctx, scene)
		}
	}

	if scene == nil {
		return nil, errors.NotFoundf("scene %d not found", id)
	}
	if scene.OwnerID != requesterID && !isAdmin {
		logger.Warn("Requester attempted to read another owner's scene", "owner_id", scene.OwnerID)
		return nil, errors.NotFoundf("scene %d not found", id)
	}

	return scene, nil
}

// ListScenes returns the requester's scene summaries.
func (s *Service) ListScenes(ctx context.Context, ownerID int64) ([]StoredScene, error) {
	scenes, err := s.repo.ListScenesByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.WrapInternal("failed to list scenes", err)
	}
	return scenes, nil
}

// ListAllScenes returns scene summaries across all owners.
func (s *Service) ListAllScenes(ctx context.Context) ([]StoredScene, error) {
	scenes, err := s.repo.ListScenes(ctx)
	if err != nil {
		return nil, errors.WrapInternal("failed to list scenes", err)
	}
	return scenes, nil
}

// DeleteScene removes a scene after the same visibility check as GetScene,
// dropping any cached copy. The check and the delete run in one
// transaction so the row cannot change owners between them.
func (s *Service) DeleteScene(ctx context.Context, id, requesterID int64, isAdmin bool) error {
	logger := s.logger.With(
		"component", "scene_service",
		"operation", "delete",
		"scene_id", id,
		"requester_id", requesterID,
	)
	logger.Info("Deleting scene")

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return errors.WrapInternal("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	scene, err := s.repo.GetScene(ctx, id, tx)
	if err != nil {
		return errors.WrapInternal("failed to load scene", err)
	}
	if scene == nil {
		return errors.NotFoundf("scene %d not found", id)
	}
	if scene.OwnerID != requesterID && !isAdmin {
		logger.Warn("Requester attempted to delete another owner's scene", "owner_id", scene.OwnerID)
		return errors.NotFoundf("scene %d not found", id)
	}

	deleted, err := s.repo.DeleteScene(ctx, id, tx)
	if err != nil {
		return errors.WrapInternal("failed to delete scene", err)
	}
	if !deleted {
		return errors.NotFoundf("scene %d not found", id)
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapInternal("failed to commit scene deletion", err)
	}

	s.cacheDrop(ctx, id)
	return nil
}

func cacheKey(id int64) string {
	return fmt.Sprintf("scene:%d", id)
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.cache.Client != nil
}

func (s *Service) cacheStore(ctx context.Context, scene *StoredScene) {
	if !s.cacheEnabled() {
		return
	}

	payload, err := json.Marshal(scene)
	if err != nil {
		return
	}

	ttl := config.GlobalConfig.Generation.CacheTTL
	if err := s.cache.SetEx(ctx, cacheKey(scene.ID), payload, ttl).Err(); err != nil {
		s.logger.Warn("Failed to cache scene", "scene_id", scene.ID, "error", err)
	}
}

func (s *Service) cacheLoad(ctx context.Context, id int64) *StoredScene {
	if !s.cacheEnabled() {
		return nil
	}

	payload, err := s.cache.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			s.logger.Warn("Failed to read scene cache", "scene_id", id, "error", err)
		}
		return nil
	}

	var scene StoredScene
	if err := json.Unmarshal(payload, &scene); err != nil {
		s.logger.Warn("Discarding malformed cached scene", "scene_id", id, "error", err)
		return nil
	}

	return &scene
}

func (s *Service) cacheDrop(ctx context.Context, id int64) {
	if !s.cacheEnabled() {
		return
	}

	if err := s.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		s.logger.Warn("Failed to drop cached scene", "scene_id", id, "error", err)
	}
}

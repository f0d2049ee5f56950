package scene

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"scenes-server/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing scene repository")
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

// BeginTx starts a transaction for callers that need a read and a write
// to observe the same snapshot.
func (r *Repository) BeginTx(ctx context.Context) (*database.Tx, error) {
	return r.db.BeginTxContext(ctx)
}

func (r *Repository) CreateScene(ctx context.Context, scene *StoredScene) error {
	logger := r.logger.With(
		"component", "scene_repository",
		"operation", "create",
		"owner_id", scene.OwnerID,
		"kind", scene.Kind,
	)
	logger.Debug("Storing generated scene")

	query := `
		INSERT INTO scenes (owner_id, kind, seed, title, object_count, frame_end, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		scene.OwnerID,
		string(scene.Kind),
		scene.Seed,
		scene.Title,
		scene.ObjectCount,
		scene.FrameEnd,
		[]byte(scene.Document),
	).Scan(&scene.ID, &scene.CreatedAt)

	if err != nil {
		logger.Error("Failed to store scene", "error", err)
		return fmt.Errorf("failed to store scene: %w", err)
	}

	logger.Debug("Scene stored", "scene_id", scene.ID)
	return nil
}

// GetScene loads one scene including its document payload. Returns nil
// without error when no row matches.
func (r *Repository) GetScene(ctx context.Context, id int64, tx *database.Tx) (*StoredScene, error) {
	logger := r.logger.With(
		"component", "scene_repository",
		"operation", "get",
		"scene_id", id,
	)
	logger.Debug("Loading scene")

	exec := r.getExecutor(tx)

	query := `
		SELECT id, owner_id, kind, seed, title, object_count, frame_end, document, created_at
		FROM scenes
		WHERE id = $1`

	var scene StoredScene
	var kind string
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&scene.ID,
		&scene.OwnerID,
		&kind,
		&scene.Seed,
		&scene.Title,
		&scene.ObjectCount,
		&scene.FrameEnd,
		&scene.Document,
		&scene.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			logger.Debug("No scene found with ID")
			return nil, nil
		}
		logger.Error("Failed to load scene", "error", err)
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}

	scene.Kind = SceneKind(kind)
	return &scene, nil
}

// ListScenesByOwner returns the owner's scenes newest first, without
// document payloads.
func (r *Repository) ListScenesByOwner(ctx context.Context, ownerID int64) ([]StoredScene, error) {
	logger := r.logger.With(
		"component", "scene_repository",
		"operation", "list_by_owner",
		"owner_id", ownerID,
	)
	logger.Debug("Listing scenes for owner")

	query := `
		SELECT id, owner_id, kind, seed, title, object_count, frame_end, created_at
		FROM scenes
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		logger.Error("Failed to query scenes", "error", err)
		return nil, fmt.Errorf("failed to query scenes: %w", err)
	}
	defer rows.Close()

	return scanSceneRows(rows, logger)
}

// ListScenes returns every stored scene newest first, without document
// payloads.
func (r *Repository) ListScenes(ctx context.Context) ([]StoredScene, error) {
	logger := r.logger.With(
		"component", "scene_repository",
		"operation", "list_all",
	)
	logger.Debug("Listing all scenes")

	query := `
		SELECT id, owner_id, kind, seed, title, object_count, frame_end, created_at
		FROM scenes
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query scenes", "error", err)
		return nil, fmt.Errorf("failed to query scenes: %w", err)
	}
	defer rows.Close()

	return scanSceneRows(rows, logger)
}

// DeleteScene removes a scene. Returns false when no row matched.
func (r *Repository) DeleteScene(ctx context.Context, id int64, tx *database.Tx) (bool, error) {
	logger := r.logger.With(
		"component", "scene_repository",
		"operation", "delete",
		"scene_id", id,
	)
	logger.Debug("Deleting scene")

	exec := r.getExecutor(tx)

	result, err := exec.ExecContext(ctx, `DELETE FROM scenes WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete scene", "error", err)
		return false, fmt.Errorf("failed to delete scene: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

func scanSceneRows(rows *sql.Rows, logger *slog.Logger) ([]StoredScene, error) {
	var scenes []StoredScene
	for rows.Next() {
		var scene StoredScene
		var kind string
		err := rows.Scan(
			&scene.ID,
			&scene.OwnerID,
			&kind,
			&scene.Seed,
			&scene.Title,
			&scene.ObjectCount,
			&scene.FrameEnd,
			&scene.CreatedAt,
		)
		if err != nil {
			logger.Error("Failed to scan scene row", "error", err)
			return nil, fmt.Errorf("failed to scan scene: %w", err)
		}
		scene.Kind = SceneKind(kind)
		scenes = append(scenes, scene)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating scenes: %w", err)
	}

	logger.Debug("Scenes retrieved", "count", len(scenes))
	return scenes, nil
}

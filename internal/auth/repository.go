package auth

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
	logger.Debug("Initializing auth repository")
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	logger := r.logger.With(
		"component", "auth_repository",
		"operation", "create_user",
		"provider", user.Provider,
		"email", user.Email,
	)
	logger.Info("Creating new user")

	query := `
		INSERT INTO users (provider, provider_id, email, username, display_name, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Provider,
		user.ProviderID,
		user.Email,
		user.Username,
		user.DisplayName,
		user.AvatarURL,
		user.Role.String(),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		logger.Error("Failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User created successfully", "user_id", user.ID, "username", user.Username)
	return nil
}

// FindUserByProvider looks a user up by OAuth identity. Returns nil without
// error when no row matches.
func (r *Repository) FindUserByProvider(ctx context.Context, provider, providerID string) (*User, error) {
	logger := r.logger.With(
		"component", "auth_repository",
		"operation", "find_by_provider",
		"provider", provider,
	)
	logger.Debug("Finding user by OAuth provider")

	query := `
		SELECT id, provider, provider_id, email, username, display_name, avatar_url, role, created_at, updated_at
		FROM users
		WHERE provider = $1 AND provider_id = $2`

	return r.scanUser(r.db.QueryRowContext(ctx, query, provider, providerID), logger)
}

// GetUserByID returns nil without error when no row matches.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	logger := r.logger.With(
		"component", "auth_repository",
		"operation", "get_by_id",
		"user_id", id,
	)
	logger.Debug("Getting user by ID")

	query := `
		SELECT id, provider, provider_id, email, username, display_name, avatar_url, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id), logger)
}

func (r *Repository) scanUser(row *sql.Row, logger *slog.Logger) (*User, error) {
	var user User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Provider,
		&user.ProviderID,
		&user.Email,
		&user.Username,
		&user.DisplayName,
		&user.AvatarURL,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			logger.Debug("No user found")
			return nil, nil
		}
		logger.Error("Database error loading user", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	user.Role = ParseUserRole(role)
	return &user, nil
}

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing auth service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// FindOrCreateUser resolves an OAuth sign-in to a user account, creating
// one on first sign-in.
func (s *Service) FindOrCreateUser(ctx context.Context, provider, providerID, email, displayName string, avatarURL *string) (*User, error) {
	logger := s.logger.With(
		"component", "auth_service",
		"operation", "find_or_create",
		"provider", provider,
		"email", email,
	)
	logger.Debug("Finding or creating user by OAuth identity")

	user, err := s.repo.FindUserByProvider(ctx, provider, providerID)
	if err != nil {
		logger.Error("Database error checking for user by provider", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user != nil {
		logger.Info("Found existing user", "user_id", user.ID, "role", user.Role)
		return user, nil
	}

	logger.Info("No existing user found, creating new user")

	user = &User{
		Provider:    provider,
		ProviderID:  providerID,
		Email:       email,
		Username:    usernameFromEmail(email),
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Role:        UserRoleArtist,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		logger.Error("Failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("Successfully created new user",
		"user_id", user.ID,
		"username", user.Username,
		"role", user.Role)

	return user, nil
}

func usernameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return "artist"
}

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"scenes-server/internal/auth"
	"scenes-server/internal/shared/cookies"
	"scenes-server/internal/shared/errors"
	"scenes-server/internal/shared/response"
)

type GitHubAuthHandler struct {
	provider    *auth.GitHubProvider
	authService *auth.Service
}

func NewGitHubAuthHandler(provider *auth.GitHubProvider, authService *auth.Service) *GitHubAuthHandler {
	return &GitHubAuthHandler{
		provider:    provider,
		authService: authService,
	}
}

// HandleLogin initiates the GitHub OAuth flow
func (h *GitHubAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "github_oauth_init")

	if !h.provider.Configured() {
		response.Error(w, r, logger, errors.External("GitHub OAuth is not properly configured"))
		return
	}

	redirectURI := resolveRedirectURI(r.URL.Query().Get("redirect_uri"))

	state, err := auth.GenerateOAuthState("github", r.UserAgent(), redirectURI)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to initialize OAuth flow", err))
		return
	}

	authURL := h.provider.GetAuthURL(state)

	logger.Info("Initiating GitHub OAuth flow", "state_length", len(state))
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// HandleCallback processes the GitHub OAuth callback
func (h *GitHubAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	errorParam := r.URL.Query().Get("error")

	logger := slog.With(
		"handler", "github_oauth_callback",
		"user_agent", r.UserAgent(),
		"ip", r.RemoteAddr,
		"has_code", code != "",
		"has_state", state != "",
	)

	// State tokens are one-time use, so validate exactly once and keep the
	// entry's redirect target for every exit path below.
	entry, stateErr := auth.ValidateOAuthState(state, "github", r.UserAgent())
	redirectURI := ""
	if stateErr == nil {
		redirectURI = entry.RedirectURI
	}

	if errorParam != "" {
		logger.Warn("GitHub OAuth authorization denied",
			"oauth_error", errorParam,
			"error_description", r.URL.Query().Get("error_description"))
		redirectWithError(w, r, redirectURI, "oauth_denied")
		return
	}

	if code == "" {
		logger.Error("GitHub OAuth callback missing authorization code")
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	if stateErr != nil {
		logger.Error("OAuth state validation failed", "error", stateErr)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	logger.Info("OAuth state validation successful - proceeding with GitHub OAuth callback")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	token, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange GitHub authorization code", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	logger.Debug("Fetching user information from GitHub API")
	userInfo, err := h.provider.GetUserInfo(ctx, token)
	if err != nil {
		logger.Error("Failed to get user info from GitHub", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	userLogger := logger.With(
		"user_email", userInfo.Email,
		"github_user_id", userInfo.ID,
		"user_name", userInfo.Name)

	if userInfo.Email == "" {
		userLogger.Error("GitHub user info missing required email field")
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	userLogger.Info("Creating or finding user account for GitHub sign-in")

	user, err := h.authService.FindOrCreateUser(
		ctx,
		"github",
		strconv.Itoa(userInfo.ID),
		userInfo.Email,
		userInfo.Name,
		&userInfo.AvatarURL,
	)
	if err != nil {
		userLogger.Error("Failed to find or create user", "error", err)
		redirectWithError(w, r, redirectURI, "database_error")
		return
	}

	userLogger = userLogger.With("user_id", user.ID)

	userLogger.Debug("Generating JWT token for user")
	jwtToken, err := auth.GenerateJWT(user)
	if err != nil {
		userLogger.Error("Failed to generate JWT token", "error", err)
		redirectWithError(w, r, redirectURI, "auth_error")
		return
	}

	cookies.SetAuthCookie(w, jwtToken)

	userLogger.Info("GitHub OAuth authentication successful",
		"username", user.Username,
		"role", user.Role)

	successURL := fmt.Sprintf("%s/auth/callback?success=true", redirectURI)
	http.Redirect(w, r, successURL, http.StatusTemporaryRedirect)
}

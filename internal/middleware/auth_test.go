package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scenes-server/internal/auth"
	"scenes-server/internal/shared/config"
	"scenes-server/internal/shared/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestConfig(t *testing.T) {
	t.Helper()

	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       strings.Repeat("s", 32),
			TokenExpiration: time.Hour,
		},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()

	var resp response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestJWTMiddlewareRejectsMissingCookie(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run without a token")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)

	JWTMiddleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Error)
}

func TestJWTMiddlewareRejectsInvalidToken(t *testing.T) {
	withTestConfig(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run with a bad token")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "not-a-jwt"})

	JWTMiddleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewarePassesClaimsToHandler(t *testing.T) {
	withTestConfig(t)

	user := &auth.User{
		ID:       7,
		Email:    "ada@example.com",
		Username: "ada",
		Role:     auth.UserRoleArtist,
	}
	token, err := auth.GenerateJWT(user)
	require.NoError(t, err)

	var got *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})

	JWTMiddleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "ada", got.Username)
	assert.False(t, got.IsAdmin())
}

func TestAdminMiddlewareRejectsArtist(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run for non-admins")
	})

	claims := &auth.Claims{UserID: 7, Username: "ada", Role: auth.UserRoleArtist.String()}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/scenes", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, claims))
	rec := httptest.NewRecorder()

	AdminMiddleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec).Error)
}

func TestAdminMiddlewareRejectsUnauthenticated(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run without claims")
	})

	rec := httptest.NewRecorder()
	AdminMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/scenes", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	claims := &auth.Claims{UserID: 1, Username: "root", Role: auth.UserRoleAdmin.String()}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/scenes", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, claims))
	rec := httptest.NewRecorder()

	AdminMiddleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireAdminRejectsMissingCookie(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run without a token")
	})

	rec := httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/scenes/1", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scenes-server/internal/auth"
	"scenes-server/internal/generate"
	"scenes-server/internal/middleware"
	"scenes-server/internal/scene"
	"scenes-server/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	saved *scene.StoredScene
}

func (s *stubStore) SaveScene(ctx context.Context, sc *scene.StoredScene) error {
	sc.ID = 99
	s.saved = sc
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withGenerationConfig(t *testing.T) {
	t.Helper()

	prev := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Generation: config.GenerationConfig{
			MaxPlacementAttempts: 500,
			FlowerCount:          3,
			ButterflyCount:       2,
			StarAttempts:         5,
			MeadowFrames:         50,
			SolarFrames:          40,
		},
	}
	t.Cleanup(func() { config.GlobalConfig = prev })
}

func newHandler(store *stubStore) *GenerateHandler {
	return NewGenerateHandler(generate.NewService(store, discardLogger()), discardLogger())
}

func authenticated(req *http.Request) *http.Request {
	claims := &auth.Claims{UserID: 7, Username: "ada", Role: auth.UserRoleArtist.String()}
	return req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
}

func TestGenerateRequiresAuthentication(t *testing.T) {
	h := newHandler(&stubStore{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scenes/generate", strings.NewReader(`{"kind":"meadow","seed":1}`))

	h.Generate(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateRejectsMalformedBody(t *testing.T) {
	h := newHandler(&stubStore{})

	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/scenes/generate", strings.NewReader(`{"kind":`)))

	h.Generate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateRejectsUnknownKind(t *testing.T) {
	h := newHandler(&stubStore{})

	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/scenes/generate", strings.NewReader(`{"kind":"nebula","seed":1}`)))

	h.Generate(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateCreatesSceneForAuthenticatedUser(t *testing.T) {
	withGenerationConfig(t)

	store := &stubStore{}
	h := newHandler(store)

	rec := httptest.NewRecorder()
	req := authenticated(httptest.NewRequest(http.MethodPost, "/api/scenes/generate", strings.NewReader(`{"kind":"solar","seed":11}`)))

	h.Generate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, store.saved)
	assert.Equal(t, int64(7), store.saved.OwnerID)

	var stored scene.StoredScene
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stored))
	assert.Equal(t, scene.SceneKindSolar, stored.Kind)
	assert.Equal(t, int64(11), stored.Seed)
	assert.Equal(t, "solar-11", stored.Title)
	assert.NotEmpty(t, stored.Document)
	assert.Greater(t, stored.ObjectCount, 0)
}

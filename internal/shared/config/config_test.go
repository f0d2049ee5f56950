package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", URL: "http://localhost:8080"},
		Database: DatabaseConfig{Host: "localhost", Name: "scenes"},
		Auth:     AuthConfig{JWTSecret: strings.Repeat("s", 32)},
		Generation: GenerationConfig{
			MaxPlacementAttempts: 1000,
		},
	}
}

func TestGenerationDefaults(t *testing.T) {
	for _, key := range []string{
		"GENERATION_MAX_PLACEMENT_ATTEMPTS",
		"GENERATION_FLOWER_COUNT",
		"GENERATION_BUTTERFLY_COUNT",
		"GENERATION_STAR_ATTEMPTS",
		"GENERATION_MEADOW_FRAMES",
		"GENERATION_SOLAR_FRAMES",
		"GENERATION_CACHE_TTL_MINUTES",
	} {
		t.Setenv(key, "")
	}

	gen := loadGenerationConfig()

	assert.Equal(t, 1000, gen.MaxPlacementAttempts)
	assert.Equal(t, 20, gen.FlowerCount)
	assert.Equal(t, 8, gen.ButterflyCount)
	assert.Equal(t, 20, gen.StarAttempts)
	assert.Equal(t, 250, gen.MeadowFrames)
	assert.Equal(t, 150, gen.SolarFrames)
	assert.Equal(t, 30*time.Minute, gen.CacheTTL)
}

func TestGenerationEnvOverrides(t *testing.T) {
	t.Setenv("GENERATION_FLOWER_COUNT", "33")
	t.Setenv("GENERATION_MEADOW_FRAMES", "400")
	t.Setenv("GENERATION_CACHE_TTL_MINUTES", "5")

	gen := loadGenerationConfig()

	assert.Equal(t, 33, gen.FlowerCount)
	assert.Equal(t, 400, gen.MeadowFrames)
	assert.Equal(t, 5*time.Minute, gen.CacheTTL)
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validTestConfig().validate())
}

func TestValidateRejectsShortJWTSecret(t *testing.T) {
	cfg := validTestConfig()
	cfg.Auth.JWTSecret = "short"

	require.Error(t, cfg.validate())
}

func TestValidateRejectsMissingDatabase(t *testing.T) {
	cfg := validTestConfig()
	cfg.Database.Host = ""

	require.Error(t, cfg.validate())
}

func TestValidateRejectsNonPositivePlacementAttempts(t *testing.T) {
	cfg := validTestConfig()
	cfg.Generation.MaxPlacementAttempts = 0

	require.Error(t, cfg.validate())
}

func TestGitHubOAuthConfigured(t *testing.T) {
	cfg := validTestConfig()
	assert.False(t, cfg.GitHubOAuthConfigured())

	cfg.OAuth.GitHub.ClientID = "id"
	cfg.OAuth.GitHub.ClientSecret = "secret"
	assert.True(t, cfg.GitHubOAuthConfigured())
}

func TestConnectionString(t *testing.T) {
	cfg := validTestConfig()
	cfg.Database = DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "scenes",
		Password: "pw",
		Name:     "scenes",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=scenes password=pw dbname=scenes sslmode=disable",
		cfg.ConnectionString())
}

package auth

import (
	"strings"
	"testing"
	"time"

	"scenes-server/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withAuthConfig(t *testing.T) {
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

func TestJWTRoundTrip(t *testing.T) {
	withAuthConfig(t)

	user := &User{
		ID:       42,
		Email:    "ada@example.com",
		Username: "ada",
		Role:     UserRoleArtist,
	}

	token, err := GenerateJWT(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.False(t, claims.IsAdmin())
}

func TestJWTCarriesAdminRole(t *testing.T) {
	withAuthConfig(t)

	token, err := GenerateJWT(&User{ID: 1, Username: "root", Role: UserRoleAdmin})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	withAuthConfig(t)

	token, err := GenerateJWT(&User{ID: 1, Username: "ada", Role: UserRoleArtist})
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	require.Error(t, err)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	withAuthConfig(t)

	token, err := GenerateJWT(&User{ID: 1, Username: "ada", Role: UserRoleArtist})
	require.NoError(t, err)

	config.GlobalConfig.Auth.JWTSecret = strings.Repeat("x", 32)

	_, err = ValidateJWT(token)
	require.Error(t, err)
}

func TestGenerateJWTRequiresConfig(t *testing.T) {
	prev := config.GlobalConfig
	config.GlobalConfig = nil
	t.Cleanup(func() { config.GlobalConfig = prev })

	_, err := GenerateJWT(&User{ID: 1, Username: "ada", Role: UserRoleArtist})
	require.Error(t, err)
}

func TestParseUserRoleDefaultsToArtist(t *testing.T) {
	assert.Equal(t, UserRoleArtist, ParseUserRole("artist"))
	assert.Equal(t, UserRoleAdmin, ParseUserRole("admin"))
	assert.Equal(t, UserRoleArtist, ParseUserRole("superuser"))
	assert.Equal(t, UserRoleArtist, ParseUserRole(""))
}

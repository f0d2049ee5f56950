package auth

import (
	"fmt"
	"time"

	"scenes-server/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() ([]byte, error) {
	cfg := config.GlobalConfig
	if cfg == nil {
		return nil, fmt.Errorf("configuration is not initialized")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is not configured")
	}
	return []byte(cfg.Auth.JWTSecret), nil
}

// GenerateJWT issues a signed session token for the user.
func GenerateJWT(user *User) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", fmt.Errorf("cannot generate JWT: %w", err)
	}

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.GlobalConfig.Auth.TokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   fmt.Sprintf("user_%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateJWT parses and verifies a session token.
func ValidateJWT(tokenString string) (*Claims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, fmt.Errorf("cannot validate JWT: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

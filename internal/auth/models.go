package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const (
	UserRoleArtist UserRole = "artist"
	UserRoleAdmin  UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	return r == UserRoleArtist || r == UserRoleAdmin
}

func ParseUserRole(s string) UserRole {
	switch s {
	case "admin":
		return UserRoleAdmin
	case "artist":
		return UserRoleArtist
	default:
		return UserRoleArtist
	}
}

type User struct {
	ID          int64     `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == UserRoleAdmin.String()
}

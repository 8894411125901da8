package auth

import (
	"github.com/anuverse/teamops-backend/internal/users"
	"github.com/anuverse/teamops-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and user identity produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	Role         enums.AppRole  `json:"role"`
	Name         string         `json:"name"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the expired access token pair used for rotation.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest identifies the session being revoked.
type LogoutRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
}

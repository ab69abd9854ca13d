package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserAuth represents the core user entity in the domain.
type UserAuth struct {
	ID         string    `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Username   string    `json:"username" example:"johndoe"`
	Email      string    `json:"email" example:"john.doe@example.com"`
	Password   string    `json:"-"`
	Provider   string    `json:"provider,omitempty"`
	ProviderID string    `json:"-"`
	Role       string    `json:"role" example:"user"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Claims represents the custom claims included in the JWT access token.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"usr,omitempty"`
	Email    string `json:"eml"`
	Role     string `json:"rol"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Message      string `json:"message,omitempty"`
}

package auth

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the claims carried by a session token.
type TokenClaims struct {
	UserID    string    `json:"user_id"` // UUID stored as string in token
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for session token creation and
// validation. Implementations include JWTService (HS256) and PasetoService
// (PASETO v4.local).
type TokenService interface {
	CreateToken(userID uuid.UUID, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

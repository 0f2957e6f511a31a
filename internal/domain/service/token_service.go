package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type markers embedded in the claims. A token of one type is never
// accepted where the other is required.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Decode failures. Callers facing the outside world collapse all of these
// into one generic unauthenticated response.
var (
	// ErrTokenMalformed is returned when the token cannot be parsed or its
	// claims do not match the expected structure.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenExpired is returned when the token's validity window has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenSignatureInvalid is returned when the signature does not verify
	// against the expected secret, including tokens signed with the wrong secret.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

// Claims defines the custom claims carried by both token kinds.
type Claims struct {
	UserID   uuid.UUID `json:"uid"`
	Username string    `json:"username"`
	Type     string    `json:"type"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// Access and refresh tokens are signed with independent secrets, so a token
// of one kind can never pass verification as the other.
type TokenService interface {
	// GenerateTokens creates a new access/refresh token pair for a given user.
	GenerateTokens(userID uuid.UUID, username string) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks an access token and returns its claims.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks a refresh token and returns its claims.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// HashToken returns the digest of a token used as its stored reference.
	// The raw refresh token is never persisted.
	HashToken(token string) string

	// GetAccessTokenDuration returns the configured validity window for access tokens.
	GetAccessTokenDuration() time.Duration

	// GetRefreshTokenDuration returns the configured validity window for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}

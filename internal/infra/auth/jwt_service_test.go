package auth

import (
	"testing"
	"time"

	"vidhub/config"
	"vidhub/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenConfig(accessTTL, refreshTTL time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"
	cfg.SecretKey.AccessTTL = accessTTL
	cfg.SecretKey.RefreshTTL = refreshTTL

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := uuid.New()
	username := "alice"

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID, username)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	// Validate access token
	accessClaims, err := jwtService.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)
	assert.Equal(t, username, accessClaims.Username)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)

	// Validate refresh token
	refreshClaims, err := jwtService.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, username, refreshClaims.Username)
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)
}

func TestJWTService_TokenKindsAreNotInterchangeable(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(uuid.New(), "alice")
	require.NoError(t, err)

	// A refresh token must never pass access validation, and vice versa.
	// The secrets differ, so the signature check already fails.
	claims, err := jwtService.ValidateAccessToken(refreshToken)
	assert.ErrorIs(t, err, service.ErrTokenSignatureInvalid)
	assert.Nil(t, claims)

	claims, err = jwtService.ValidateRefreshToken(accessToken)
	assert.ErrorIs(t, err, service.ErrTokenSignatureInvalid)
	assert.Nil(t, claims)
}

func TestJWTService_ForgedToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	forgerCfg := newTestTokenConfig(15*time.Minute, 7*24*time.Hour)
	forgerCfg.SecretKey.Access = "attacker_controlled_access_secret_key"
	forgerCfg.SecretKey.Refresh = "attacker_controlled_refresh_secret_key"
	forger, err := NewJWTService(forgerCfg)
	require.NoError(t, err)

	forgedAccess, forgedRefresh, err := forger.GenerateTokens(uuid.New(), "mallory")
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(forgedAccess)
	assert.ErrorIs(t, err, service.ErrTokenSignatureInvalid)
	assert.Nil(t, claims)

	claims, err = jwtService.ValidateRefreshToken(forgedRefresh)
	assert.ErrorIs(t, err, service.ErrTokenSignatureInvalid)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	// Negative TTLs make every issued token already expired.
	jwtService, err := NewJWTService(newTestTokenConfig(-time.Minute, -time.Minute))
	require.NoError(t, err)

	accessToken, refreshToken, err := jwtService.GenerateTokens(uuid.New(), "alice")
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(accessToken)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
	assert.Nil(t, claims)

	claims, err = jwtService.ValidateRefreshToken(refreshToken)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
	assert.Nil(t, claims)
}

func TestJWTService_MalformedToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	for _, token := range []string{
		"",
		"clearly-not-a-jwt-token-format",
		"aaaa.bbbb.cccc",
	} {
		claims, err := jwtService.ValidateAccessToken(token)
		assert.ErrorIs(t, err, service.ErrTokenMalformed, "token: %q", token)
		assert.Nil(t, claims)
	}
}

func TestJWTService_EmptySecrets(t *testing.T) {
	cfg := newTestTokenConfig(15*time.Minute, 7*24*time.Hour)
	cfg.SecretKey.Access = ""
	cfg.SecretKey.Refresh = ""

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_IdenticalSecretsRejected(t *testing.T) {
	cfg := newTestTokenConfig(15*time.Minute, 7*24*time.Hour)
	cfg.SecretKey.Refresh = cfg.SecretKey.Access

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
}

func TestJWTService_HashToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	digest := jwtService.HashToken("some-token")
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, jwtService.HashToken("some-token"))
	assert.NotEqual(t, digest, jwtService.HashToken("other-token"))
}

func TestJWTService_TokenDurations(t *testing.T) {
	jwtService, err := NewJWTService(newTestTokenConfig(15*time.Minute, 7*24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, jwtService.GetAccessTokenDuration())
	assert.Equal(t, 7*24*time.Hour, jwtService.GetRefreshTokenDuration())
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/order-inventory-backend/internal/config"
)

func jwtTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "order-inventory-test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-123",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
	}
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig())

	token, err := manager.GenerateAccessToken(42, "user@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig())

	refresh, err := manager.GenerateRefreshToken(42, "user@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(refresh)
	require.Error(t, err)

	claims, err := manager.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
	// Admin status never rides in a refresh token
	assert.False(t, claims.IsAdmin)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig())

	token, err := manager.GenerateAccessToken(1, "user@example.com", false)
	require.NoError(t, err)

	otherCfg := jwtTestConfig()
	otherCfg.JWT.Secret = "a-completely-different-secret-key-456"
	other := NewJWTManager(otherCfg)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	cfg := jwtTestConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute
	manager := NewJWTManager(cfg)

	token, err := manager.GenerateAccessToken(1, "user@example.com", false)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	manager := NewJWTManager(jwtTestConfig())

	_, err := manager.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing token", "Bearer", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"empty header", "", ""},
		{"extra whitespace", "Bearer   abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTokenFromHeader(tt.header))
		})
	}
}

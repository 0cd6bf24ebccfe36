package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/order-inventory-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func passwordTestConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	manager := NewPasswordManager(passwordTestConfig())

	hash, err := manager.HashPassword("correct1horse")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct1horse", hash)

	require.NoError(t, manager.VerifyPassword("correct1horse", hash))
	require.Error(t, manager.VerifyPassword("wrong1horse", hash))
}

func TestHashPasswordRejectsWeakPasswords(t *testing.T) {
	manager := NewPasswordManager(passwordTestConfig())

	_, err := manager.HashPassword("short1")
	require.Error(t, err)

	_, err = manager.HashPassword("nodigitshere")
	require.Error(t, err)

	_, err = manager.HashPassword("12345678")
	require.Error(t, err)
}

func TestValidatePassword(t *testing.T) {
	manager := NewPasswordManager(passwordTestConfig())

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "letmein99", false},
		{"exactly eight chars", "abcdefg1", false},
		{"too short", "abc1", true},
		{"letters only", "abcdefgh", true},
		{"digits only", "12345678", true},
		{"unicode letters", "pässwörd1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

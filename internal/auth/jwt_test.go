package auth

import (
	"testing"

	"lpg-backend/internal/config"
	"lpg-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "lpg-backend"
	return cfg
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret"))

	user := &models.User{
		ID:       7,
		TenantID: 2,
		Email:    "driver@example.com",
		Role:     "driver",
	}

	token, err := manager.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, 2, claims.TenantID)
	assert.Equal(t, "driver@example.com", claims.Email)
	assert.Equal(t, "driver", claims.Role)
	assert.Equal(t, "lpg-backend", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	signer := NewJWTManager(testConfig("secret-a"))
	verifier := NewJWTManager(testConfig("secret-b"))

	token, err := signer.GenerateToken(&models.User{ID: 1, TenantID: 1})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	manager := NewJWTManager(testConfig("test-secret"))

	_, err := manager.ValidateToken("not-a-token")
	require.Error(t, err)
}

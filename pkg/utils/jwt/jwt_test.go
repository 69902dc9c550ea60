package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, "dashboard", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "dashboard", claims.Operator)
	assert.Equal(t, "prophunter", claims.Issuer)
}

func TestValidateRejects(t *testing.T) {
	secret := []byte("test-secret")

	expired, err := GenerateToken(secret, "dashboard", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.Error(t, err)

	token, _ := GenerateToken(secret, "dashboard", time.Hour)
	_, err = ValidateToken([]byte("other"), token)
	assert.Error(t, err)

	_, err = ValidateToken(secret, "not-a-token")
	assert.Error(t, err)
}

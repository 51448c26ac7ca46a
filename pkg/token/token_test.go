package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	signed, err := GenerateJWT(42, "test-secret", 15)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ValidateJWT(signed, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "studio-match", claims.Issuer)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	signed, err := GenerateJWT(42, "test-secret", 15)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, "other-secret")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	signed, err := GenerateJWT(42, "test-secret", -1)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, "test-secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateJWTEmptyInputs(t *testing.T) {
	_, err := ValidateJWT("", "test-secret")
	assert.Error(t, err)

	_, err = ValidateJWT("not-empty", "")
	assert.Error(t, err)
}

func TestValidateJWTZeroUserID(t *testing.T) {
	signed, err := GenerateJWT(0, "test-secret", 15)
	require.NoError(t, err)

	_, err = ValidateJWT(signed, "test-secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}

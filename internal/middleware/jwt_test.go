package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadcall/internal/models"
)

// Tokens must be signed with the configured secret, not the dev
// fallback: after SetSecret, tokens minted earlier stop validating.
func TestSetSecretRotatesSigningKey(t *testing.T) {
	SetSecret("first-key")
	old, err := GenerateToken("acct-1", models.RoleRider)
	require.NoError(t, err)

	SetSecret("second-key")
	_, err = ValidateToken(old)
	assert.Error(t, err)

	fresh, err := GenerateToken("acct-1", models.RoleRider)
	require.NoError(t, err)
	token, err := ValidateToken(fresh)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "acct-1", claims["user_id"])
	assert.Equal(t, "rider", claims["role"])
}

func TestSetSecretIgnoresEmpty(t *testing.T) {
	SetSecret("keep-me")
	tok, err := GenerateToken("acct-2", models.RoleMechanic)
	require.NoError(t, err)

	SetSecret("")
	parsed, err := ValidateToken(tok)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

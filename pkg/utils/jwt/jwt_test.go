package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	token, err := GenerateToken(7, "ana@equipe.com", "admin")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@equipe.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	token, err := GenerateToken(7, "ana@equipe.com", "admin")
	require.NoError(t, err)

	claims, err := ValidateToken(token[:len(token)-2] + "xx")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateTokenRejectsOtherKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "chave-a")
	token, err := GenerateToken(7, "ana@equipe.com", "admin")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "chave-b")
	claims, err := ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateTokenNeverReturnsNilClaimsWithoutError(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo-de-teste")

	for _, raw := range []string{"", "abc", "a.b.c"} {
		claims, err := ValidateToken(raw)
		assert.Nil(t, claims, raw)
		// claims nulas sempre vêm acompanhadas de erro, senão o middleware
		// injetaria nil no contexto
		assert.Error(t, err, raw)
	}
}

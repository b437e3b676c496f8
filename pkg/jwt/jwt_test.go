package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testEmail  = "dueno@empresa.co"
	testIssuer = "backoffice-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate(testSecret, testUserID, testEmail, testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, email, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testEmail, email)
}

func TestTokenExpirado_RetornaError(t *testing.T) {
	tok, err := Generate(testSecret, testUserID, testEmail, testIssuer, -1)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestSecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := Generate(testSecret, testUserID, testEmail, testIssuer, 60)
	require.NoError(t, err)

	_, _, err = Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", testUserID, testEmail, testIssuer, 60)
	assert.Error(t, err)

	_, _, err = Parse("", "x.y.z")
	assert.Error(t, err)
}

func TestUserIDVacio_RetornaError(t *testing.T) {
	tok, err := Generate(testSecret, "", testEmail, testIssuer, 60)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

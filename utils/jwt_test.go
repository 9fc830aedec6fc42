package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minicrm/config"
	"minicrm/models"
)

func TestGenerateAndParseJWTToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	user := &models.User{}
	user.ID = 7

	access, refresh, err := GenerateJWTToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ParseJWTToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)

	claims, err = ParseJWTToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestParseJWTTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	user := &models.User{}
	user.ID = 1
	access, _, err := GenerateJWTToken(user)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "other-secret"
	_, err = ParseJWTToken(access)
	assert.Error(t, err)
}

func TestParseJWTTokenRejectsGarbage(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	_, err := ParseJWTToken("not.a.token")
	assert.Error(t, err)
}

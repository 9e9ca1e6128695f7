package utils

import (
	"testing"

	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestValidateTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		Model: gorm.Model{ID: 42},
		Email: "asha@example.com",
		Role:  "USER",
	}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{Model: gorm.Model{ID: 42}}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	user := &models.User{Model: gorm.Model{ID: 42}}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

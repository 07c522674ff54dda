package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()

	token, err := GenerateJWT(userID, "alice@acme.com", &companyID)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice@acme.com", claims.Email)
	assert.Equal(t, companyID.String(), claims.CompanyID)
}

func TestJWTWithoutCompanyOmitsClaim(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "carol@nowhere.io", nil)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Empty(t, claims.CompanyID)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@acme.com"))
	assert.Error(t, ValidateEmail("not-an-address"))
	assert.Error(t, ValidateEmail(""))
}

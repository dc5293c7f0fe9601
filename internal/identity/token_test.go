package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bazaar/internal/models"
)

func testUser() *models.User {
	u := &models.User{
		Name:  "Ann",
		Email: "ann@x.com",
		Role:  models.RoleStoreAdmin,
	}
	return u
}

func TestTokenRoundTrip(t *testing.T) {
	user := testUser()
	token, err := GenerateToken("secret", user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, models.RoleStoreAdmin, claims.Role)
	assert.Equal(t, "ann@x.com", claims.Email)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken("secret", testUser(), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("another-secret", token)
	assert.Error(t, err)
}

func TestTokenExpiredRejected(t *testing.T) {
	token, err := GenerateToken("secret", testUser(), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	_, err := ParseToken("secret", "not.a.token")
	assert.Error(t, err)
}

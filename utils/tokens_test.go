package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/streamhive/streamhive-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func testUser() *models.User {
	return &models.User{
		ID:       bson.NewObjectID(),
		Username: "alice",
		Email:    "a@x.com",
		FullName: "Alice A",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")

	user := testUser()
	tok, err := GenerateAccessToken(user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ValidateToken(tok, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Alice A", claims.FullName)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")

	id := bson.NewObjectID().Hex()
	tok, err := GenerateRefreshToken(id, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(tok, "refresh-secret")
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	// Refresh tokens carry only the id.
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Email)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "right-secret")

	tok, err := GenerateAccessToken(testUser(), time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(tok, "wrong-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "secret")

	tok, err := GenerateAccessToken(testUser(), -time.Second)
	require.NoError(t, err)

	_, err = ValidateToken(tok, "secret")
	assert.Error(t, err)
}

func TestValidateTokenMalformed(t *testing.T) {
	_, err := ValidateToken("not.a.jwt", "secret")
	assert.Error(t, err)
}

func TestAccessTTLDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")
	assert.Equal(t, 15*time.Minute, AccessTTL())

	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "45")
	assert.Equal(t, 45*time.Minute, AccessTTL())

	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "garbage")
	assert.Equal(t, 15*time.Minute, AccessTTL())
}

func TestRefreshTTLDefaults(t *testing.T) {
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "")
	assert.Equal(t, 30*24*time.Hour, RefreshTTL())

	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	assert.Equal(t, 7*24*time.Hour, RefreshTTL())
}

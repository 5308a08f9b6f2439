package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordNeverPlaintext(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", hash)
	assert.NotContains(t, hash, "pw123456")
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "pw123456"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Alice", "alice"},
		{"  Bob  ", "bob"},
		{"José", "jose"},
		{"user.name_01", "user.name_01"},
		{"we!rd ch@rs", "werdchrs"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeUsername(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.COM "))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 12, ParseIntDefault("12", 5))
	assert.Equal(t, 5, ParseIntDefault("nope", 5))
}

func TestParseBoolQuery(t *testing.T) {
	b, err := ParseBoolQuery("")
	assert.NoError(t, err)
	assert.Nil(t, b)

	b, err = ParseBoolQuery("true")
	assert.NoError(t, err)
	if assert.NotNil(t, b) {
		assert.True(t, *b)
	}

	_, err = ParseBoolQuery("maybe")
	assert.Error(t, err)
}

func TestGetDefaultQueryLimits(t *testing.T) {
	t.Setenv("READ_QUERY_MAX_LIMIT", "")
	t.Setenv("DEFAULT_READ_QUERY_LIMIT", "")

	maxLimit, defaultLimit := GetDefaultQueryLimits()
	assert.Equal(t, 100, maxLimit)
	assert.Equal(t, 20, defaultLimit)

	t.Setenv("READ_QUERY_MAX_LIMIT", "50")
	t.Setenv("DEFAULT_READ_QUERY_LIMIT", "10")
	maxLimit, defaultLimit = GetDefaultQueryLimits()
	assert.Equal(t, 50, maxLimit)
	assert.Equal(t, 10, defaultLimit)
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	token, expires, err := IssueToken("s3cret", 42, "clerk@example.com", "user", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID())
	assert.Equal(t, "clerk@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestParseTokenRejects(t *testing.T) {
	token, _, err := IssueToken("s3cret", 1, "a@example.com", "admin", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken("other", token)
	assert.Error(t, err)

	expired, _, err := IssueToken("s3cret", 1, "a@example.com", "admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("s3cret", expired)
	assert.Error(t, err)

	_, err = ParseToken("s3cret", "garbage")
	assert.Error(t, err)

	_, _, err = IssueToken("", 1, "a@example.com", "admin", time.Hour)
	assert.Error(t, err)
}

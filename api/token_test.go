package api

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestNewSessionToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 256; i++ {
		token, err := newSessionToken()
		require.NoError(t, err)
		assert.True(t, hexToken.MatchString(token), "token must be 64 lowercase hex chars, got %q", token)
		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}

func TestNewSessionRegistersToken(t *testing.T) {
	store := NewMemorySessionStore()
	a := New(store, NewCredentials("admin", "secret", ""), time.Hour)

	token, expiresAt, err := a.newSession()
	require.NoError(t, err)
	assert.True(t, store.IsValid(token))
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
	assert.Equal(t, 1, store.Count())
}

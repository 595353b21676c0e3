package api

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

// sessionStoreTests runs the common suite against any SessionStore implementation.
func sessionStoreTests(t *testing.T, store SessionStore) {
	t.Helper()

	t.Run("PutAndIsValid", func(t *testing.T) {
		store.Put("tok-live", time.Now().Add(time.Hour))
		assert.True(t, store.IsValid("tok-live"))
	})

	t.Run("MissingToken", func(t *testing.T) {
		assert.False(t, store.IsValid("no-such-token"))
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		store.Put("tok-exp", time.Now().Add(-time.Second))
		assert.False(t, store.IsValid("tok-exp"))
	})

	t.Run("IsValidDoesNotMutate", func(t *testing.T) {
		before := store.Count()
		store.Put("tok-exp-read", time.Now().Add(-time.Second))
		assert.False(t, store.IsValid("tok-exp-read"))
		// The expired entry stays until explicitly invalidated or swept.
		assert.Equal(t, before+1, store.Count())
		store.InvalidateIfExpired("tok-exp-read")
	})

	t.Run("InvalidateIfExpired", func(t *testing.T) {
		before := store.Count()

		store.Put("tok-inv-live", time.Now().Add(time.Hour))
		store.InvalidateIfExpired("tok-inv-live")
		assert.True(t, store.IsValid("tok-inv-live"), "live session must not be invalidated")

		store.Put("tok-inv-exp", time.Now().Add(-time.Second))
		store.InvalidateIfExpired("tok-inv-exp")
		assert.False(t, store.IsValid("tok-inv-exp"))
		assert.Equal(t, before+1, store.Count(), "expired entry removed, live entry kept")

		// Missing token is a no-op.
		store.InvalidateIfExpired("never-existed")
	})

	t.Run("Overwrite", func(t *testing.T) {
		store.Put("tok-ow", time.Now().Add(-time.Second))
		assert.False(t, store.IsValid("tok-ow"))
		store.Put("tok-ow", time.Now().Add(time.Hour))
		assert.True(t, store.IsValid("tok-ow"))
	})

	t.Run("SweepRemovesAllAndOnlyExpired", func(t *testing.T) {
		now := time.Now()
		store.Put("tok-sw-live-1", now.Add(time.Hour))
		store.Put("tok-sw-live-2", now.Add(30*time.Minute))
		store.Put("tok-sw-exp-1", now.Add(-time.Minute))
		store.Put("tok-sw-exp-2", now.Add(-time.Hour))

		removed := store.Sweep(now)
		assert.GreaterOrEqual(t, removed, 2)
		assert.True(t, store.IsValid("tok-sw-live-1"))
		assert.True(t, store.IsValid("tok-sw-live-2"))
		assert.False(t, store.IsValid("tok-sw-exp-1"))
		assert.False(t, store.IsValid("tok-sw-exp-2"))

		// A second sweep at the same instant finds nothing new.
		assert.Equal(t, 0, store.Sweep(now))
	})

	t.Run("ExpiryTransition", func(t *testing.T) {
		// Liveness flips as the wall clock passes the expiry instant:
		// valid just before, invalid just after, and the entry stays in
		// the count until a sweep removes it.
		store.Put("tok-flip", time.Now().Add(150*time.Millisecond))
		assert.True(t, store.IsValid("tok-flip"))

		time.Sleep(200 * time.Millisecond)
		assert.False(t, store.IsValid("tok-flip"))

		before := store.Count()
		removed := store.Sweep(time.Now())
		assert.GreaterOrEqual(t, removed, 1)
		assert.Equal(t, before-removed, store.Count())
		assert.False(t, store.IsValid("tok-flip"))
	})
}

func TestMemorySessionStore(t *testing.T) {
	sessionStoreTests(t, NewMemorySessionStore())
}

func TestBoltSessionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := NewBoltSessionStore(path)
	require.NoError(t, err)
	defer store.Close()

	sessionStoreTests(t, store)

	t.Run("SurvivesReopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sessions.db")
		s1, err := NewBoltSessionStore(path)
		require.NoError(t, err)
		s1.Put("tok-persist", time.Now().Add(time.Hour))
		require.NoError(t, s1.Close())

		s2, err := NewBoltSessionStore(path)
		require.NoError(t, err)
		defer s2.Close()
		assert.True(t, s2.IsValid("tok-persist"))
		assert.Equal(t, 1, s2.Count())
	})

	t.Run("CorruptEntrySwept", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sessions.db")
		s, err := NewBoltSessionStore(path)
		require.NoError(t, err)
		defer s.Close()

		// Write a value that does not decode as an expiry.
		require.NoError(t, s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(sessionsBucket).Put([]byte("tok-corrupt"), []byte("garbage"))
		}))

		assert.False(t, s.IsValid("tok-corrupt"))
		assert.Equal(t, 1, s.Sweep(time.Now()))
		assert.Equal(t, 0, s.Count())
	})
}

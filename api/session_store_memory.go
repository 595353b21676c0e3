package api

import (
	"sync"
	"time"
)

// MemorySessionStore is a thread-safe in-memory SessionStore.
// Sessions are lost on server restart.
type MemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]time.Time
}

var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		data: make(map[string]time.Time),
	}
}

func (s *MemorySessionStore) Put(token string, expiresAt time.Time) {
	s.mu.Lock()
	s.data[token] = expiresAt
	s.mu.Unlock()
}

func (s *MemorySessionStore) IsValid(token string) bool {
	s.mu.RLock()
	expiresAt, ok := s.data[token]
	s.mu.RUnlock()
	return ok && time.Now().Before(expiresAt)
}

func (s *MemorySessionStore) InvalidateIfExpired(token string) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if expiresAt, ok := s.data[token]; ok && expiresAt.Before(now) {
		delete(s.data, token)
	}
}

func (s *MemorySessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, expiresAt := range s.data {
		if expiresAt.Before(now) {
			delete(s.data, token)
			removed++
		}
	}
	return removed
}

func (s *MemorySessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

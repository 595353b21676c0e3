package api

import "time"

// SessionStore maps opaque session tokens to their expiry instants.
// Implementations must be safe for concurrent use by request handlers and
// the background sweeper.
//
// A session is live iff its expiry is strictly in the future; every read
// path re-evaluates that, so correctness never depends on the sweep having
// run.
type SessionStore interface {
	// Put inserts or replaces the session for token.
	Put(token string, expiresAt time.Time)
	// IsValid reports whether token exists and has not expired. It never
	// mutates the store: removal of a found-but-expired entry is a separate
	// hygiene step (InvalidateIfExpired or Sweep).
	IsValid(token string) bool
	// InvalidateIfExpired deletes token iff it is present and expired.
	InvalidateIfExpired(token string)
	// Sweep deletes every session that expired before now and returns the
	// number removed.
	Sweep(now time.Time) int
	// Count returns the number of stored sessions. The value is a
	// diagnostic approximation: it may include expired entries that no
	// sweep has removed yet.
	Count() int
}

package api

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// BoltSessionStore is a SessionStore backed by a bbolt file, so sessions
// survive server restarts. Keys are session tokens; values are the expiry
// instant as a big-endian Unix-nanosecond timestamp.
type BoltSessionStore struct {
	db *bolt.DB
}

var _ SessionStore = (*BoltSessionStore)(nil)

// NewBoltSessionStore opens (creating if necessary) the session database at
// path. The caller owns the returned store and must Close it on shutdown.
func NewBoltSessionStore(path string) (*BoltSessionStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}
	return &BoltSessionStore{db: db}, nil
}

// Close releases the underlying database file.
func (s *BoltSessionStore) Close() error {
	return s.db.Close()
}

func (s *BoltSessionStore) Put(token string, expiresAt time.Time) {
	_ = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(token), encodeExpiry(expiresAt))
	})
}

func (s *BoltSessionStore) IsValid(token string) bool {
	valid := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get([]byte(token))
		if v == nil {
			return nil
		}
		expiresAt, ok := decodeExpiry(v)
		valid = ok && time.Now().Before(expiresAt)
		return nil
	})
	return valid
}

func (s *BoltSessionStore) InvalidateIfExpired(token string) {
	now := time.Now()
	_ = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		v := b.Get([]byte(token))
		if v == nil {
			return nil
		}
		// Undecodable entries are corrupt; remove them along with the expired.
		if expiresAt, ok := decodeExpiry(v); !ok || expiresAt.Before(now) {
			return b.Delete([]byte(token))
		}
		return nil
	})
}

func (s *BoltSessionStore) Sweep(now time.Time) int {
	removed := 0
	_ = s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(sessionsBucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			expiresAt, ok := decodeExpiry(v)
			if !ok || expiresAt.Before(now) {
				if err := c.Delete(); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	return removed
}

func (s *BoltSessionStore) Count() int {
	count := 0
	_ = s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(sessionsBucket).Stats().KeyN
		return nil
	})
	return count
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))
	return buf
}

func decodeExpiry(v []byte) (time.Time, bool) {
	if len(v) != 8 {
		return time.Time{}, false
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(v))), true
}

package api

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often expired sessions are removed from the
// store. The sweep is hygiene only: every read path re-checks expiry itself.
const DefaultSweepInterval = time.Hour

// Sweeper periodically removes expired sessions from a SessionStore.
type Sweeper struct {
	store    SessionStore
	interval time.Duration
	logger   *slog.Logger
	stopOnce sync.Once
	stopCh   chan struct{}
}

// StartSweeper launches the background sweep loop. The caller must Stop the
// returned Sweeper on shutdown.
func StartSweeper(store SessionStore, interval time.Duration, logger *slog.Logger) *Sweeper {
	s := &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger.With("component", "sweeper"),
		stopCh:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Stop terminates the sweep loop. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if removed := s.store.Sweep(time.Now()); removed > 0 {
				s.logger.Info("cleaned up expired sessions", "removed", removed)
			}
		}
	}
}

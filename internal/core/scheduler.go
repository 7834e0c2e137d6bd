package core

// scheduler.go runs the background session janitor. Sessions live only in
// memory; the janitor drops the ones that have been idle longer than the
// configured TTL so abandoned uploads do not pile up.

import (
	"context"
	"log/slog"
	"time"
)

// JanitorConfig controls session expiry.
type JanitorConfig struct {
	TTL           time.Duration // Idle time after which a session is dropped
	CheckInterval time.Duration // How often to sweep
}

// StartSessionJanitor sweeps expired sessions every CheckInterval until ctx
// is cancelled.
func (s *Service) StartSessionJanitor(ctx context.Context, cfg JanitorConfig) {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	slog.Info("session janitor started",
		"ttl", cfg.TTL.String(),
		"check_interval", cfg.CheckInterval.String(),
	)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case now := <-ticker.C:
			if n := s.Sweep(now, cfg.TTL); n > 0 {
				slog.Info("expired sessions removed", "count", n, "remaining", s.SessionCount())
			}
		}
	}
}

// Sweep removes sessions idle for longer than ttl as of now and returns how
// many were removed. A non-positive ttl disables expiry.
func (s *Service) Sweep(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActive()) > ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

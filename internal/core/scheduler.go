package core

// scheduler.go runs background maintenance for the Service.
//
// The session janitor removes batches whose TTL has passed so their merged
// tables can be garbage collected. It is long-running and stops with its
// context.

import (
	"context"
	"log/slog"
	"time"
)

// StartSessionJanitor sweeps expired sessions immediately and then every
// interval until ctx is cancelled.
func (s *Service) StartSessionJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	slog.Info("session janitor started", "interval", interval)

	s.runSweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

func (s *Service) runSweep() {
	start := time.Now()
	removed := s.SweepSessions()
	if removed == 0 {
		slog.Debug("session sweep completed", "remaining", s.SessionCount())
		return
	}
	slog.Info("expired batch sessions removed",
		"removed", removed,
		"remaining", s.SessionCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

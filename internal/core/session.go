package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 100
)

// Batch is a merged batch held for later filtering and export.
type Batch struct {
	ID         string
	Result     *BatchResult
	CreatedAt  time.Time
	LastAccess time.Time
}

// sessionStore holds batches in memory. Entries expire after ttl without
// access; when full, the least recently accessed entry is evicted.
type sessionStore struct {
	ttl time.Duration
	max int
	now func() time.Time

	mu      sync.Mutex
	batches map[string]*Batch
}

func newSessionStore(ttl time.Duration, max int) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if max <= 0 {
		max = defaultMaxSessions
	}
	return &sessionStore{
		ttl:     ttl,
		max:     max,
		now:     time.Now,
		batches: make(map[string]*Batch),
	}
}

func (s *sessionStore) add(result *BatchResult) string {
	now := s.now()
	b := &Batch{
		ID:         uuid.New().String(),
		Result:     result,
		CreatedAt:  now,
		LastAccess: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.batches) >= s.max {
		s.evictOldestLocked()
	}
	s.batches[b.ID] = b
	return b.ID
}

// get returns a copy so callers never race with expiry bookkeeping.
func (s *sessionStore) get(id string) (*Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if now.Sub(b.LastAccess) > s.ttl {
		delete(s.batches, id)
		return nil, ErrSessionNotFound
	}
	b.LastAccess = now

	cp := *b
	return &cp, nil
}

func (s *sessionStore) remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.batches[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.batches, id)
	return nil
}

func (s *sessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, b := range s.batches {
		if now.Sub(b.LastAccess) > s.ttl {
			delete(s.batches, id)
			removed++
		}
	}
	return removed
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func (s *sessionStore) evictOldestLocked() {
	var oldest *Batch
	for _, b := range s.batches {
		if oldest == nil || b.LastAccess.Before(oldest.LastAccess) {
			oldest = b
		}
	}
	if oldest != nil {
		delete(s.batches, oldest.ID)
		slog.Info("batch session evicted", "batch_id", oldest.ID, "max_sessions", s.max)
	}
}

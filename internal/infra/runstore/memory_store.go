package runstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/faq-intents/internal/domain/intent"
)

type runRecord struct {
	payload   intent.Run
	expiresAt time.Time
}

// MemoryStore caches the latest run per corpus in process memory for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	latest map[string]runRecord
	now    func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		latest: make(map[string]runRecord),
		now:    time.Now,
	}
}

// SaveLatest caches the run with optional TTL.
func (s *MemoryStore) SaveLatest(_ context.Context, run intent.Run, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.latest[run.Corpus] = runRecord{payload: run, expiresAt: exp}
	return nil
}

// Latest implements intent.Store.
func (s *MemoryStore) Latest(_ context.Context, corpus string) (intent.Run, bool, error) {
	s.mu.RLock()
	record, ok := s.latest[corpus]
	s.mu.RUnlock()
	if !ok {
		return intent.Run{}, false, nil
	}
	if s.hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.latest, corpus)
		s.mu.Unlock()
		return intent.Run{}, false, nil
	}
	return record.payload, true, nil
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ intent.Store = (*MemoryStore)(nil)

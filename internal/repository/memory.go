package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process session store for development and tests.
// Records do not survive a restart, which degrades to "always require
// login" exactly like any other non-functional storage medium.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
	ttl  time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		recs: make(map[string]Record),
		ttl:  ttl,
	}
}

func (s *MemoryStore) Get(_ context.Context, sid string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[sid]
	if !ok || time.Now().After(rec.ExpiresAt) {
		return Record{}, false, nil
	}
	return rec, true, nil
}

func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.LastSeenAt = time.Now()
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = time.Now().Add(s.ttl)
	}
	s.recs[rec.SID] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.recs, sid)
	return nil
}

func (s *MemoryStore) DeleteExpired(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := time.Now()
	for sid, rec := range s.recs {
		if now.After(rec.ExpiresAt) {
			delete(s.recs, sid)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

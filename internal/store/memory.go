package store

import (
	"sync"
	"time"
)

// MemoryStore keeps the first-seen map in process memory. Used by tests and
// by callers that load/flush persistence themselves.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]time.Time)}
}

func (s *MemoryStore) FirstSeen(id string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.m[id]
	return t, ok, nil
}

func (s *MemoryStore) Record(id string, firstSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		s.m[id] = firstSeen
	}
	return nil
}

func (s *MemoryStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.m {
		if t.Before(cutoff) {
			delete(s.m, id)
		}
	}
	return nil
}

func (s *MemoryStore) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m), nil
}

func (s *MemoryStore) Close() error { return nil }

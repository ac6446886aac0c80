package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	tags      []string
	expiresAt time.Time
}

// MemoryStore is an in-process TagStore backed by a mutex-guarded map with a
// tag→key-set index. Expired entries are dropped lazily on read and whenever
// a tag invalidation walks the index.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memEntry
	byTag   map[string]map[string]struct{}

	// now is injectable so tests can drive TTL expiry with a fake clock.
	now func() time.Time
}

// NewMemoryStore returns an empty in-memory tag store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memEntry),
		byTag:   make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

// WithClock replaces the store's time source and returns the store.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.dropLocked(key, e)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, tags []string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.entries[key]; ok {
		s.dropLocked(key, old)
	}
	e := &memEntry{value: value, tags: tags, expiresAt: s.now().Add(ttl)}
	s.entries[key] = e
	for _, tag := range tags {
		set, ok := s.byTag[tag]
		if !ok {
			set = make(map[string]struct{})
			s.byTag[tag] = set
		}
		set[key] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) InvalidateTag(_ context.Context, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.byTag[tag] {
		if e, ok := s.entries[key]; ok {
			s.dropLocked(key, e)
		}
	}
	delete(s.byTag, tag)
	return nil
}

// Len reports the number of live entries. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// dropLocked removes an entry and its index references. Caller holds mu.
func (s *MemoryStore) dropLocked(key string, e *memEntry) {
	delete(s.entries, key)
	for _, tag := range e.tags {
		if set, ok := s.byTag[tag]; ok {
			delete(set, key)
			if len(set) == 0 {
				delete(s.byTag, tag)
			}
		}
	}
}

package memory

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"barbs-dog-rescue/internal/ports/cache"
)

var (
	ErrKeyRequired = errors.New("key required")
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// CacheStore es un cache.Store de un solo proceso.
// SetNX es atómico dentro del proceso, que es todo lo que puede garantizar.
type CacheStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ cache.Store = (*CacheStore)(nil)

func NewCacheStore() *CacheStore {
	return &CacheStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *CacheStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(e.value), true, nil
}

func (s *CacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" {
		return ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = s.newEntry(value, ttl)
	return nil
}

func (s *CacheStore) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = s.newEntry(value, ttl)
	return true, nil
}

func (s *CacheStore) CompareAndDelete(_ context.Context, key string, value []byte) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, ErrKeyRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok || !bytes.Equal(e.value, value) {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// live requiere s.mu tomado. Limpia la entrada si ya expiró.
func (s *CacheStore) live(key string) (entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return entry{}, false
	}
	return e, true
}

func (s *CacheStore) newEntry(value []byte, ttl time.Duration) entry {
	e := entry{value: bytes.Clone(value)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	return e
}

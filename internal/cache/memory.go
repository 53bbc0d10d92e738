package cache

import (
	"context"
	"sync"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
)

// MemoryStore is a process-local Store. Expired entries are not swept; they are
// ignored on read and replaced by the next Put for the same repository.
type MemoryStore[T any] struct {
	mu   sync.RWMutex
	data map[string]Entry[T]
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// NewMemoryStore creates an empty MemoryStore. A non-positive ttl selects DefaultTTL.
func NewMemoryStore[T any](ttl time.Duration) *MemoryStore[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore[T]{
		data: make(map[string]Entry[T]),
		ttl:  ttl,
		now:  time.Now,
	}
}

// WithClock replaces the clock used for FetchedAt and expiry checks.
func (s *MemoryStore[T]) WithClock(now func() time.Time) *MemoryStore[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore[T]) Get(_ context.Context, repo domain.RepositoryIdentity) (Entry[T], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[repo.Key()]
	if !ok || !e.Valid(s.now(), s.ttl) {
		return Entry[T]{}, false, nil
	}
	return e, true, nil
}

func (s *MemoryStore[T]) Put(_ context.Context, repo domain.RepositoryIdentity, data T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[repo.Key()] = Entry[T]{Data: data, FetchedAt: s.now()}
	return nil
}

// Len returns the number of held entries, expired ones included.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Package cache keeps computed metrics for a short time so repeated requests
// for the same repository do not reach the upstream API again.
package cache

import (
	"context"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
)

// DefaultTTL is how long an entry is served before it is treated as absent.
const DefaultTTL = 5 * time.Minute

// Entry is a cached value together with the time it was computed.
type Entry[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Valid reports whether the entry is still within ttl at now.
func (e Entry[T]) Valid(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Store is a time-boxed key-value store keyed by repository identity.
// Get never returns an expired entry; callers treat a miss and an expired entry alike.
type Store[T any] interface {
	Get(ctx context.Context, repo domain.RepositoryIdentity) (Entry[T], bool, error)
	Put(ctx context.Context, repo domain.RepositoryIdentity, data T) error
}

// Noop never holds anything. It backs --cache=none.
type Noop[T any] struct{}

func (Noop[T]) Get(context.Context, domain.RepositoryIdentity) (Entry[T], bool, error) {
	return Entry[T]{}, false, nil
}

func (Noop[T]) Put(context.Context, domain.RepositoryIdentity, T) error {
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the connection used by RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore shares cached entries between processes through Redis.
// Keys expire in Redis after the TTL; validity is still checked against FetchedAt.
type RedisStore[T any] struct {
	client    redis.UniversalClient
	namespace string
	ttl       time.Duration
	now       func() time.Time
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a RedisStore whose keys are prefixed with namespace.
// A non-positive ttl selects DefaultTTL.
func NewRedisStore[T any](client redis.UniversalClient, namespace string, ttl time.Duration) *RedisStore[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore[T]{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for FetchedAt and expiry checks.
func (s *RedisStore[T]) WithClock(now func() time.Time) *RedisStore[T] {
	s.now = now
	return s
}

func (s *RedisStore[T]) key(repo domain.RepositoryIdentity) string {
	return fmt.Sprintf("repo-insights:%s:%s", s.namespace, repo.Key())
}

func (s *RedisStore[T]) Get(ctx context.Context, repo domain.RepositoryIdentity) (Entry[T], bool, error) {
	raw, err := s.client.Get(ctx, s.key(repo)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry[T]{}, false, nil
	}
	if err != nil {
		return Entry[T]{}, false, fmt.Errorf("failed to get from cache: %w", err)
	}

	var e Entry[T]
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry[T]{}, false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	if !e.Valid(s.now(), s.ttl) {
		return Entry[T]{}, false, nil
	}
	return e, true, nil
}

func (s *RedisStore[T]) Put(ctx context.Context, repo domain.RepositoryIdentity, data T) error {
	raw, err := json.Marshal(Entry[T]{Data: data, FetchedAt: s.now()})
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	if err := s.client.Set(ctx, s.key(repo), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

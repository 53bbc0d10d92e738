package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_GetPut(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	cadence := 10
	store := NewRedisStore[domain.AlivenessMetrics](client, "aliveness", DefaultTTL).WithClock(func() time.Time { return testNow })

	_, ok, err := store.Get(ctx, testRepo)
	require.NoError(t, err)
	assert.False(t, ok)

	value := domain.AlivenessMetrics{DaysSinceLastCommit: 3, ReleaseCadence: &cadence}
	require.NoError(t, store.Put(ctx, testRepo, value))

	assert.True(t, mr.Exists("repo-insights:aliveness:octo/hello"))
	assert.Equal(t, DefaultTTL, mr.TTL("repo-insights:aliveness:octo/hello"))

	entry, ok, err := store.Get(ctx, domain.RepositoryIdentity{Owner: "Octo", Name: "Hello"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value, entry.Data)
	assert.True(t, testNow.Equal(entry.FetchedAt))
}

func TestRedisStore_KeyExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := NewRedisStore[int](client, "insights", time.Minute)

	require.NoError(t, store.Put(ctx, testRepo, 42))
	mr.FastForward(time.Minute)

	_, ok, err := store.Get(ctx, testRepo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_StaleEntryIsIgnored(t *testing.T) {
	ctx := context.Background()
	_, client := setupRedis(t)
	now := testNow
	store := NewRedisStore[int](client, "insights", time.Minute).WithClock(func() time.Time { return now })

	require.NoError(t, store.Put(ctx, testRepo, 42))
	now = now.Add(time.Minute)

	_, ok, err := store.Get(ctx, testRepo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	_, client := setupRedis(t)
	insights := NewRedisStore[int](client, "insights", DefaultTTL)
	aliveness := NewRedisStore[int](client, "aliveness", DefaultTTL)

	require.NoError(t, insights.Put(ctx, testRepo, 1))

	_, ok, err := aliveness.Get(ctx, testRepo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := NewRedisStore[int](client, "insights", DefaultTTL)
	require.NoError(t, mr.Set("repo-insights:insights:octo/hello", "not json"))

	_, ok, err := store.Get(ctx, testRepo)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

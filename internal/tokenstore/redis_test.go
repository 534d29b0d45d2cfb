package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedis(context.Background(), Config{Driver: "redis", Prefix: "test", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedis_Contract(t *testing.T) {
	testStoreContract(t, func(t *testing.T) storeHarness {
		s, mr := newRedis(t)
		return storeHarness{store: s, advance: mr.FastForward}
	})
}

func TestRedis_KeysAndTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t)

	require.NoError(t, s.PutRefresh(ctx, "acc-1", "refresh-value", 14*24*time.Hour))
	v, err := mr.Get("test:rt:acc-1")
	require.NoError(t, err)
	require.Equal(t, "refresh-value", v)
	require.Equal(t, 14*24*time.Hour, mr.TTL("test:rt:acc-1"))

	tok := "eyJhbGciOiJIUzI1NiJ9.access.sig"
	require.NoError(t, s.Blacklist(ctx, tok, 30*time.Minute))
	k := blacklistKey("test", tok)
	require.True(t, mr.Exists(k))
	require.Equal(t, 30*time.Minute, mr.TTL(k))

	// el token crudo nunca aparece en las keys
	for _, key := range mr.Keys() {
		require.NotContains(t, key, tok)
	}
	require.Len(t, mr.Keys(), 2)
}

func TestRedis_PutRefreshNonPositiveTTLDeletes(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t)

	require.NoError(t, s.PutRefresh(ctx, "acc-1", "r0", time.Hour))
	require.NoError(t, s.PutRefresh(ctx, "acc-1", "r1", 0))
	require.False(t, mr.Exists("test:rt:acc-1"))
}

func TestRedis_PurgeIsNoop(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t)

	require.NoError(t, s.Blacklist(ctx, "tok", time.Minute))
	mr.FastForward(2 * time.Minute)

	n, err := s.Purge(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRedis_ServerDownIsNotNotFound(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	s := NewRedisFromClient(client, "test")
	t.Cleanup(func() { _ = s.Close() })

	mr.Close()

	_, err := s.GetRefresh(ctx, "acc-1")
	require.Error(t, err)
	require.False(t, IsNotFound(err))

	_, err = s.IsBlacklisted(ctx, "tok")
	require.Error(t, err)
	require.Error(t, s.Ping(ctx))
}

func TestNewRedis_PingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), Config{Driver: "redis", RedisAddr: addr})
	require.ErrorContains(t, err, "redis ping failed")
}

package tokenstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// storeHarness: un Store recién creado y cómo hacer avanzar su reloj.
type storeHarness struct {
	store   Store
	advance func(time.Duration)
}

// testStoreContract corre el comportamiento común a todos los drivers.
func testStoreContract(t *testing.T, newHarness func(t *testing.T) storeHarness) {
	t.Run("refresh upsert replaces", func(t *testing.T) {
		ctx := context.Background()
		s := newHarness(t).store

		_, err := s.GetRefresh(ctx, "acc-1")
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.PutRefresh(ctx, "acc-1", "r0", time.Hour))
		require.NoError(t, s.PutRefresh(ctx, "acc-1", "r1", time.Hour))

		got, err := s.GetRefresh(ctx, "acc-1")
		require.NoError(t, err)
		require.Equal(t, "r1", got)

		require.NoError(t, s.DeleteRefresh(ctx, "acc-1"))
		require.NoError(t, s.DeleteRefresh(ctx, "acc-1"))
		_, err = s.GetRefresh(ctx, "acc-1")
		require.True(t, IsNotFound(err))
	})

	t.Run("refresh expires", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)

		require.NoError(t, h.store.PutRefresh(ctx, "acc-1", "r0", time.Minute))
		require.NoError(t, h.store.PutRefresh(ctx, "acc-2", "r1", time.Hour))
		h.advance(time.Minute)

		_, err := h.store.GetRefresh(ctx, "acc-1")
		require.ErrorIs(t, err, ErrNotFound)
		got, err := h.store.GetRefresh(ctx, "acc-2")
		require.NoError(t, err)
		require.Equal(t, "r1", got)
	})

	t.Run("blacklist lazy expiry", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)

		ok, err := h.store.IsBlacklisted(ctx, "tok")
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, h.store.Blacklist(ctx, "tok", 10*time.Minute))
		ok, err = h.store.IsBlacklisted(ctx, "tok")
		require.NoError(t, err)
		require.True(t, ok)

		h.advance(9 * time.Minute)
		ok, _ = h.store.IsBlacklisted(ctx, "tok")
		require.True(t, ok)

		h.advance(time.Minute)
		ok, _ = h.store.IsBlacklisted(ctx, "tok")
		require.False(t, ok)
	})

	t.Run("blacklist non-positive ttl is a no-op", func(t *testing.T) {
		ctx := context.Background()
		s := newHarness(t).store

		require.NoError(t, s.Blacklist(ctx, "tok", 0))
		require.NoError(t, s.Blacklist(ctx, "tok2", -time.Second))
		ok, _ := s.IsBlacklisted(ctx, "tok")
		require.False(t, ok)
		ok, _ = s.IsBlacklisted(ctx, "tok2")
		require.False(t, ok)
	})

	t.Run("refresh and blacklist are independent", func(t *testing.T) {
		ctx := context.Background()
		s := newHarness(t).store

		require.NoError(t, s.Blacklist(ctx, "acc-1", time.Hour))
		_, err := s.GetRefresh(ctx, "acc-1")
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.PutRefresh(ctx, "acc-2", "r0", time.Hour))
		ok, err := s.IsBlacklisted(ctx, "r0")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("concurrent access", func(t *testing.T) {
		ctx := context.Background()
		s := newHarness(t).store

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = s.PutRefresh(ctx, "acc-1", "r", time.Hour)
				_, _ = s.GetRefresh(ctx, "acc-1")
				_ = s.Blacklist(ctx, "tok", time.Hour)
				_, _ = s.IsBlacklisted(ctx, "tok")
			}()
		}
		wg.Wait()

		got, err := s.GetRefresh(ctx, "acc-1")
		require.NoError(t, err)
		require.Equal(t, "r", got)
		ok, err := s.IsBlacklisted(ctx, "tok")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newHarness(t).store.Ping(context.Background()))
	})
}

package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newMemory(t *testing.T) (Store, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Now()}
	s := NewMemory("test", clk.Now)
	t.Cleanup(func() { _ = s.Close() })
	return s, clk
}

func TestMemory_Contract(t *testing.T) {
	testStoreContract(t, func(t *testing.T) storeHarness {
		s, clk := newMemory(t)
		return storeHarness{store: s, advance: clk.Advance}
	})
}

func TestMemory_PurgeRemovesOnlyExpired(t *testing.T) {
	ctx := context.Background()
	s, clk := newMemory(t)

	require.NoError(t, s.Blacklist(ctx, "short", time.Minute))
	require.NoError(t, s.Blacklist(ctx, "long", time.Hour))
	require.NoError(t, s.PutRefresh(ctx, "acc-1", "r0", time.Minute))
	require.NoError(t, s.PutRefresh(ctx, "acc-2", "r1", time.Hour))

	clk.Advance(2 * time.Minute)
	n, err := s.Purge(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	ok, _ := s.IsBlacklisted(ctx, "long")
	require.True(t, ok)
	got, err := s.GetRefresh(ctx, "acc-2")
	require.NoError(t, err)
	require.Equal(t, "r1", got)

	n, err = s.Purge(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestNew_Drivers(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Config{Driver: "memory"}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))

	_, err = New(ctx, Config{Driver: "postgres"}, nil)
	require.ErrorIs(t, err, ErrMissingPool)

	_, err = New(ctx, Config{Driver: "etcd"}, nil)
	require.ErrorIs(t, err, ErrUnknownDriver)
}

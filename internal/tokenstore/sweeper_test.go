package tokenstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingStore struct {
	Store
	calls atomic.Int32
	err   error
}

func (c *countingStore) Purge(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	if c.err != nil {
		return 0, c.err
	}
	return 1, nil
}

func TestSweeper_RunsUntilContextDone(t *testing.T) {
	cs := &countingStore{Store: NewMemory("", nil)}
	sw := NewSweeper(cs, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()

	require.Eventually(t, func() bool { return cs.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeper_FailedPurgeKeepsRunning(t *testing.T) {
	cs := &countingStore{Store: NewMemory("", nil), err: errors.New("db down")}
	sw := NewSweeper(cs, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sw.Run(ctx) }()

	require.Eventually(t, func() bool { return cs.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Now()}
	s := NewMemory("", clk.Now)
	require.NoError(t, s.Blacklist(ctx, "tok", time.Second))
	clk.Advance(2 * time.Second)

	n, err := NewSweeper(s, 0).SweepOnce(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

package rate

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryLimiter fixed window en proceso (go-cache). Sirve para un nodo único;
// con varias réplicas cada una cuenta por separado.
type MemoryLimiter struct {
	mu     sync.Mutex
	c      *cache.Cache
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		c:      cache.New(2*window, 4*window),
		max:    int64(max),
		window: window,
		now:    now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now().UTC()
	winStart := now.Truncate(l.window)
	k := key + ":" + strconv.FormatInt(winStart.Unix(), 10)

	l.mu.Lock()
	var hits int64 = 1
	if v, ok := l.c.Get(k); ok {
		hits = v.(int64) + 1
	}
	l.c.Set(k, hits, 2*l.window)
	l.mu.Unlock()

	return evaluate(hits, l.max, winStart.Add(l.window).Sub(now), l.window), nil
}

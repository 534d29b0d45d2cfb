package tokenstore

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore implementa Store sobre go-cache. go-cache aplica su propio TTL con
// el reloj real; además cada item guarda su expiración para evaluarla contra now,
// lo que permite tests con reloj falso.
type memoryStore struct {
	c      *gocache.Cache
	prefix string
	now    func() time.Time
}

type memItem struct {
	value     string
	expiresAt time.Time
}

// NewMemory crea un Store en memoria. Sin janitor: la limpieza física es Purge.
func NewMemory(prefix string, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{
		c:      gocache.New(gocache.NoExpiration, 0),
		prefix: prefix,
		now:    now,
	}
}

func (m *memoryStore) PutRefresh(ctx context.Context, accountID, token string, ttl time.Duration) error {
	if ttl <= 0 {
		m.c.Delete(refreshKey(m.prefix, accountID))
		return nil
	}
	m.c.Set(refreshKey(m.prefix, accountID), memItem{value: token, expiresAt: m.now().Add(ttl)}, ttl)
	return nil
}

func (m *memoryStore) GetRefresh(ctx context.Context, accountID string) (string, error) {
	it, ok := m.get(refreshKey(m.prefix, accountID))
	if !ok {
		return "", ErrNotFound
	}
	return it.value, nil
}

func (m *memoryStore) DeleteRefresh(ctx context.Context, accountID string) error {
	m.c.Delete(refreshKey(m.prefix, accountID))
	return nil
}

func (m *memoryStore) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.c.Set(blacklistKey(m.prefix, token), memItem{expiresAt: m.now().Add(ttl)}, ttl)
	return nil
}

func (m *memoryStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	_, ok := m.get(blacklistKey(m.prefix, token))
	return ok, nil
}

func (m *memoryStore) get(k string) (memItem, bool) {
	v, ok := m.c.Get(k)
	if !ok {
		return memItem{}, false
	}
	it, ok := v.(memItem)
	if !ok || !m.now().Before(it.expiresAt) {
		return memItem{}, false
	}
	return it, true
}

func (m *memoryStore) Purge(ctx context.Context) (int64, error) {
	before := m.c.ItemCount()
	m.c.DeleteExpired()
	n := int64(before - m.c.ItemCount())

	now := m.now()
	for k, raw := range m.c.Items() {
		it, ok := raw.Object.(memItem)
		if ok && now.Before(it.expiresAt) {
			continue
		}
		m.c.Delete(k)
		n++
	}
	return n, nil
}

func (m *memoryStore) Ping(ctx context.Context) error { return nil }

func (m *memoryStore) Close() error {
	m.c.Flush()
	return nil
}

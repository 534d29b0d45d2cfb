package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore implementa Store con TTL nativo de Redis. La expiración la aplica
// el servidor, así que Purge no tiene trabajo que hacer.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis crea el Store y verifica la conexión.
func NewRedis(ctx context.Context, cfg Config) (Store, error) {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("tokenstore: redis ping failed: %w", err)
	}
	return NewRedisFromClient(rdb, cfg.Prefix), nil
}

// NewRedisFromClient envuelve un cliente existente.
func NewRedisFromClient(c *redis.Client, prefix string) Store {
	return &redisStore{client: c, prefix: prefix}
}

func (r *redisStore) PutRefresh(ctx context.Context, accountID, token string, ttl time.Duration) error {
	k := refreshKey(r.prefix, accountID)
	if ttl <= 0 {
		return r.client.Del(ctx, k).Err()
	}
	return r.client.Set(ctx, k, token, ttl).Err()
}

func (r *redisStore) GetRefresh(ctx context.Context, accountID string) (string, error) {
	v, err := r.client.Get(ctx, refreshKey(r.prefix, accountID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *redisStore) DeleteRefresh(ctx context.Context, accountID string) error {
	return r.client.Del(ctx, refreshKey(r.prefix, accountID)).Err()
}

func (r *redisStore) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, blacklistKey(r.prefix, token), "1", ttl).Err()
}

func (r *redisStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistKey(r.prefix, token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisStore) Purge(ctx context.Context) (int64, error) { return 0, nil }

func (r *redisStore) Ping(ctx context.Context) error { return r.client.Ping(ctx).Err() }

func (r *redisStore) Close() error { return r.client.Close() }

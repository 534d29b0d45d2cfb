package app

import (
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/shelfauth/internal/config"
	"github.com/dropDatabas3/shelfauth/internal/rate"
)

// newRateLimiter elige el backend según el token store: con redis el límite es
// compartido entre réplicas. El func devuelto libera el cliente propio.
func newRateLimiter(cfg *config.Config, now func() time.Time) (rate.Limiter, func() error) {
	noop := func() error { return nil }
	if !cfg.RateLimit.Enabled {
		return nil, noop
	}

	if cfg.TokenStore.Driver == "redis" {
		client := rdb.NewClient(&rdb.Options{
			Addr:     cfg.TokenStore.Redis.Addr,
			Password: cfg.TokenStore.Redis.Password,
			DB:       cfg.TokenStore.Redis.DB,
		})
		return rate.NewRedisLimiter(client, cfg.TokenStore.Prefix+"rl:", cfg.RateLimit.Max, cfg.RateLimit.Window), client.Close
	}
	return rate.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window, now), noop
}

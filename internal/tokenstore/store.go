// Package tokenstore guarda el único refresh token activo por cuenta y la lista
// negra de access tokens revocados en logout. Ambos con expiración.
//
// Drivers:
//   - memory   (go-cache, in-process; desarrollo/testing o nodo único)
//   - redis    (TTL nativo, compartido entre réplicas)
//   - postgres (tablas refresh_token / token_blacklist)
//
// El driver se elige por config (token_store.driver).
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indica que no hay refresh token vigente para la cuenta.
	ErrNotFound = errors.New("tokenstore: not found")

	ErrUnknownDriver = errors.New("tokenstore: unknown driver")
	ErrMissingPool   = errors.New("tokenstore: postgres driver requires a pool")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Store es seguro para uso concurrente. Upserts concurrentes para la misma cuenta
// no se coordinan: gana la última escritura.
type Store interface {
	// PutRefresh reemplaza cualquier refresh previo de la cuenta.
	PutRefresh(ctx context.Context, accountID, token string, ttl time.Duration) error

	// GetRefresh retorna ErrNotFound si no existe o expiró.
	GetRefresh(ctx context.Context, accountID string) (string, error)

	// DeleteRefresh es idempotente.
	DeleteRefresh(ctx context.Context, accountID string) error

	// Blacklist revoca token hasta now+ttl. ttl <= 0 no hace nada.
	Blacklist(ctx context.Context, token string, ttl time.Duration) error

	// IsBlacklisted es true sólo si existe una entrada con expiración futura.
	IsBlacklisted(ctx context.Context, token string) (bool, error)

	// Purge elimina entradas expiradas y retorna cuántas borró.
	Purge(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// Config configuración para crear un Store.
type Config struct {
	Driver string // "memory" | "redis" | "postgres"
	Prefix string // prefijo de keys (memory/redis)

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Now reloj inyectable para la expiración lógica; default time.Now.
	Now func() time.Time
}

// New crea el Store según cfg.Driver. pool sólo se usa con el driver postgres.
func New(ctx context.Context, cfg Config, pool *pgxpool.Pool) (Store, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.Now), nil
	case "redis":
		return NewRedis(ctx, cfg)
	case "postgres":
		if pool == nil {
			return nil, ErrMissingPool
		}
		return NewPostgres(pool, cfg.Now), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

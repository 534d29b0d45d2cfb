package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/shelfauth/internal/config"
	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
	"github.com/dropDatabas3/shelfauth/internal/store/memory"
	"github.com/dropDatabas3/shelfauth/internal/store/pg"
	"github.com/dropDatabas3/shelfauth/internal/tokenstore"
)

// AccountStore es el repositorio de cuentas completo (login + operación).
type AccountStore interface {
	repository.AccountRepository
	repository.AccountAdmin
}

// Stores agrupa la persistencia compartida por serve y los comandos de operación.
type Stores struct {
	PG       *pg.Store // nil sin database.dsn
	Accounts AccountStore
	Tokens   tokenstore.Store
}

// OpenStores abre el pool (si hay DSN), corre migraciones si database.migrate,
// y crea el repo de cuentas y el token store según config.
func OpenStores(ctx context.Context, cfg *config.Config, now func() time.Time) (*Stores, error) {
	log := logger.From(ctx).With(logger.Component("app.stores"))
	s := &Stores{}

	var pool *pgxpool.Pool
	if cfg.Database.DSN != "" {
		pgs, err := pg.New(ctx, cfg.Database.DSN, pg.PoolConfig{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		s.PG = pgs
		pool = pgs.Pool()

		if cfg.Database.Migrate {
			if err := pg.Migrate(ctx, pool); err != nil {
				pgs.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		s.Accounts = pgs.Accounts()
	} else {
		log.Warn("database.dsn empty, accounts kept in memory")
		s.Accounts = memory.NewAccountRepo()
	}

	tokens, err := tokenstore.New(ctx, tokenstore.Config{
		Driver:        cfg.TokenStore.Driver,
		Prefix:        cfg.TokenStore.Prefix,
		RedisAddr:     cfg.TokenStore.Redis.Addr,
		RedisPassword: cfg.TokenStore.Redis.Password,
		RedisDB:       cfg.TokenStore.Redis.DB,
		Now:           now,
	}, pool)
	if err != nil {
		s.PG.Close()
		return nil, fmt.Errorf("token store: %w", err)
	}
	s.Tokens = tokens
	log.Info("token store ready", logger.Driver(cfg.TokenStore.Driver))

	return s, nil
}

// Close cierra token store y pool.
func (s *Stores) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.Tokens != nil {
		errs = append(errs, s.Tokens.Close())
	}
	s.PG.Close()
	return errors.Join(errs...)
}

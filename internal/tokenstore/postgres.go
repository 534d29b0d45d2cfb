package tokenstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB es el subconjunto de *pgxpool.Pool que usa el driver postgres.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// pgStore implementa Store sobre las tablas refresh_token y token_blacklist
// (migrations/postgres). Las filas expiradas son inertes hasta Purge.
type pgStore struct {
	db  DB
	now func() time.Time
}

func NewPostgres(db DB, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &pgStore{db: db, now: now}
}

func (s *pgStore) PutRefresh(ctx context.Context, accountID, token string, ttl time.Duration) error {
	const q = `
		INSERT INTO refresh_token (account_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`
	_, err := s.db.Exec(ctx, q, accountID, token, s.now().Add(ttl).UTC())
	return err
}

func (s *pgStore) GetRefresh(ctx context.Context, accountID string) (string, error) {
	const q = `SELECT token FROM refresh_token WHERE account_id = $1 AND expires_at > $2`
	var tok string
	err := s.db.QueryRow(ctx, q, accountID, s.now().UTC()).Scan(&tok)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return tok, nil
}

func (s *pgStore) DeleteRefresh(ctx context.Context, accountID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM refresh_token WHERE account_id = $1`, accountID)
	return err
}

func (s *pgStore) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	const q = `
		INSERT INTO token_blacklist (token, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE
		SET expires_at = GREATEST(token_blacklist.expires_at, EXCLUDED.expires_at)`
	_, err := s.db.Exec(ctx, q, token, s.now().Add(ttl).UTC())
	return err
}

func (s *pgStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token = $1 AND expires_at > $2)`
	var ok bool
	if err := s.db.QueryRow(ctx, q, token, s.now().UTC()).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (s *pgStore) Purge(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	var total int64

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, q := range []string{
		`DELETE FROM token_blacklist WHERE expires_at <= $1`,
		`DELETE FROM refresh_token WHERE expires_at <= $1`,
	} {
		ct, err := tx.Exec(ctx, q, now)
		if err != nil {
			return 0, err
		}
		total += ct.RowsAffected()
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *pgStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

// Close no cierra el pool: pertenece a quien lo creó.
func (s *pgStore) Close() error { return nil }

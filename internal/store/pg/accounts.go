package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepo implementa repository.AccountRepository sobre la tabla account.
type AccountRepo struct{ db Querier }

var _ repository.AccountRepository = (*AccountRepo)(nil)

func NewAccountRepo(db Querier) *AccountRepo { return &AccountRepo{db: db} }

const accountColumns = `id::text, email, nickname, image_url, provider_id, provider_type, admin, created_at, updated_at`

func scanAccount(row pgx.Row) (*repository.Account, error) {
	var a repository.Account
	err := row.Scan(&a.ID, &a.Email, &a.Nickname, &a.ImageURL, &a.ProviderID, &a.ProviderType,
		&a.Admin, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID trata un id que no es UUID como inexistente.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*repository.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	const q = `SELECT ` + accountColumns + ` FROM account WHERE id = $1`
	return scanAccount(r.db.QueryRow(ctx, q, id))
}

func (r *AccountRepo) GetByProvider(ctx context.Context, providerID, providerType string) (*repository.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM account WHERE provider_id = $1 AND provider_type = $2`
	return scanAccount(r.db.QueryRow(ctx, q, providerID, providerType))
}

func (r *AccountRepo) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM account WHERE nickname = $1)`
	var taken bool
	if err := r.db.QueryRow(ctx, q, nickname).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (r *AccountRepo) Create(ctx context.Context, a *repository.Account) error {
	const q = `
		INSERT INTO account (id, email, nickname, image_url, provider_id, provider_type, admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, q, a.ID, a.Email, a.Nickname, a.ImageURL, a.ProviderID, a.ProviderType,
		a.Admin, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("account insert: %w", repository.ErrConflict)
	}
	return err
}

// SetAdmin promueve o degrada una cuenta (comando de operación; no hay endpoint).
func (r *AccountRepo) SetAdmin(ctx context.Context, id string, admin bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	const q = `UPDATE account SET admin = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id, admin)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" // unique_violation
}

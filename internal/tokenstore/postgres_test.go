package tokenstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var pgNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// atTime compara instantes ignorando location.
type atTime time.Time

func (a atTime) Match(v any) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(time.Time(a))
}

func newPostgresWithMock(t *testing.T) (Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewPostgres(mock, func() time.Time { return pgNow }), mock
}

func TestPostgres_PutRefreshUpserts(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	q := `(?s)^\s*INSERT\s+INTO\s+refresh_token\s*\(account_id,\s*token,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*ON\s+CONFLICT\s*\(account_id\)\s*DO\s+UPDATE\s+SET\s+token\s*=\s*EXCLUDED\.token,\s*expires_at\s*=\s*EXCLUDED\.expires_at\s*$`
	mock.ExpectExec(q).
		WithArgs("acc-1", "r1", atTime(pgNow.Add(time.Hour))).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.PutRefresh(context.Background(), "acc-1", "r1", time.Hour))
}

func TestPostgres_GetRefresh(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	ctx := context.Background()

	q := `^SELECT token FROM refresh_token WHERE account_id = \$1 AND expires_at > \$2$`
	mock.ExpectQuery(q).
		WithArgs("acc-1", atTime(pgNow)).
		WillReturnRows(pgxmock.NewRows([]string{"token"}).AddRow("r1"))
	mock.ExpectQuery(q).
		WithArgs("acc-2", atTime(pgNow)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(q).
		WithArgs("acc-3", atTime(pgNow)).
		WillReturnError(errors.New("conn reset"))

	got, err := s.GetRefresh(ctx, "acc-1")
	require.NoError(t, err)
	require.Equal(t, "r1", got)

	// fila ausente o expirada
	_, err = s.GetRefresh(ctx, "acc-2")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetRefresh(ctx, "acc-3")
	require.Error(t, err)
	require.False(t, IsNotFound(err))
}

func TestPostgres_DeleteRefresh(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectExec(`^DELETE FROM refresh_token WHERE account_id = \$1$`).
		WithArgs("acc-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.DeleteRefresh(context.Background(), "acc-1"))
}

func TestPostgres_BlacklistKeepsLatestExpiry(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	ctx := context.Background()

	q := `(?s)^\s*INSERT\s+INTO\s+token_blacklist\s*\(token,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(token\)\s*DO\s+UPDATE\s+SET\s+expires_at\s*=\s*GREATEST\(token_blacklist\.expires_at,\s*EXCLUDED\.expires_at\)\s*$`
	mock.ExpectExec(q).
		WithArgs("tok", atTime(pgNow.Add(10*time.Minute))).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Blacklist(ctx, "tok", 10*time.Minute))

	// ttl <= 0 no toca la base
	require.NoError(t, s.Blacklist(ctx, "tok", 0))
	require.NoError(t, s.Blacklist(ctx, "tok", -time.Second))
}

func TestPostgres_IsBlacklisted(t *testing.T) {
	s, mock := newPostgresWithMock(t)
	ctx := context.Background()

	q := `^SELECT EXISTS \(SELECT 1 FROM token_blacklist WHERE token = \$1 AND expires_at > \$2\)$`
	mock.ExpectQuery(q).
		WithArgs("tok", atTime(pgNow)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(q).
		WithArgs("other", atTime(pgNow)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := s.IsBlacklisted(ctx, "tok")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.IsBlacklisted(ctx, "other")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPostgres_PurgeCommits(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE FROM token_blacklist WHERE expires_at <= \$1$`).
		WithArgs(atTime(pgNow)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`^DELETE FROM refresh_token WHERE expires_at <= \$1$`).
		WithArgs(atTime(pgNow)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	n, err := s.Purge(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 5, n)
}

func TestPostgres_PurgeRollsBackOnError(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`^DELETE FROM token_blacklist WHERE expires_at <= \$1$`).
		WithArgs(atTime(pgNow)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`^DELETE FROM refresh_token WHERE expires_at <= \$1$`).
		WithArgs(atTime(pgNow)).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	n, err := s.Purge(context.Background())
	require.ErrorContains(t, err, "lock timeout")
	require.Zero(t, n)
}

func TestPostgres_Ping(t *testing.T) {
	s, mock := newPostgresWithMock(t)

	mock.ExpectPing()
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
}

package members

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
	"github.com/dropDatabas3/shelfauth/internal/providers"
	"github.com/dropDatabas3/shelfauth/internal/store/memory"
)

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%08x-0000-4000-8000-%012x", n, n)
	}
}

func profile(pid, nick string) providers.Profile {
	return providers.Profile{ProviderID: pid, Provider: "kakao", Nickname: nick, Email: pid + "@example.com"}
}

func TestResolveOrCreate_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepo()
	r := NewResolver(repo)

	a1, err := r.ResolveOrCreate(ctx, profile("42", "reader"))
	require.NoError(t, err)
	a2, err := r.ResolveOrCreate(ctx, profile("42", "renamed-upstream"))
	require.NoError(t, err)

	require.Equal(t, a1.ID, a2.ID)
	require.Equal(t, "reader", a2.Nickname)
	require.False(t, a1.Admin)
	require.Equal(t, 1, repo.Count())
}

func TestResolveOrCreate_NicknameCollision(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepo()
	r := NewResolver(repo, WithIDGenerator(seqIDs()))

	a1, err := r.ResolveOrCreate(ctx, profile("1", "bookworm"))
	require.NoError(t, err)
	a2, err := r.ResolveOrCreate(ctx, profile("2", "bookworm"))
	require.NoError(t, err)

	require.Equal(t, "bookworm", a1.Nickname)
	require.Equal(t, "bookworm_00000002", a2.Nickname)
	require.NotEqual(t, a1.Nickname, a2.Nickname)
}

func TestResolveOrCreate_EmptyNicknameDefaults(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepo()
	r := NewResolver(repo, WithIDGenerator(seqIDs()))

	a1, err := r.ResolveOrCreate(ctx, profile("1", "  "))
	require.NoError(t, err)
	require.Equal(t, "reader", a1.Nickname)

	a2, err := r.ResolveOrCreate(ctx, profile("2", ""))
	require.NoError(t, err)
	require.Equal(t, "reader_00000002", a2.Nickname)
}

func TestResolveOrCreate_LongerSuffixWhenTaken(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAccountRepo()
	require.NoError(t, repo.Create(ctx, &repository.Account{ID: "x1", Nickname: "ada", ProviderID: "x1", ProviderType: "github"}))
	require.NoError(t, repo.Create(ctx, &repository.Account{ID: "x2", Nickname: "ada_00000001", ProviderID: "x2", ProviderType: "github"}))

	r := NewResolver(repo, WithIDGenerator(seqIDs()))
	a, err := r.ResolveOrCreate(ctx, profile("1", "ada"))
	require.NoError(t, err)
	require.Equal(t, "ada_000000010000", a.Nickname)
}

func TestResolveOrCreate_RequiresProviderIdentity(t *testing.T) {
	r := NewResolver(memory.NewAccountRepo())
	_, err := r.ResolveOrCreate(context.Background(), providers.Profile{Nickname: "x"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

// conflictRepo simula la carrera check-then-act: el nickname parece libre pero
// el insert choca con el UNIQUE.
type conflictRepo struct{ *memory.AccountRepo }

func (c conflictRepo) Create(ctx context.Context, a *repository.Account) error {
	return fmt.Errorf("insert: %w", repository.ErrConflict)
}

func TestResolveOrCreate_ConflictSurfaced(t *testing.T) {
	r := NewResolver(conflictRepo{memory.NewAccountRepo()})
	_, err := r.ResolveOrCreate(context.Background(), profile("1", "reader"))
	require.True(t, errors.Is(err, repository.ErrConflict))
}

type brokenRepo struct{ *memory.AccountRepo }

func (b brokenRepo) GetByProvider(ctx context.Context, pid, ptype string) (*repository.Account, error) {
	return nil, errors.New("db down")
}

func TestResolveOrCreate_LookupError(t *testing.T) {
	r := NewResolver(brokenRepo{memory.NewAccountRepo()})
	_, err := r.ResolveOrCreate(context.Background(), profile("1", "reader"))
	require.Error(t, err)
	require.False(t, errors.Is(err, repository.ErrNotFound))
}

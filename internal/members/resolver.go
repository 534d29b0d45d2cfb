// Package members resuelve (o crea) la cuenta local de un perfil federado.
package members

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
	"github.com/dropDatabas3/shelfauth/internal/providers"
)

const (
	defaultNickname = "reader"
	maxBaseRunes    = 32
)

// suffixLens largo (en hex) del sufijo en cada reintento de nickname.
var suffixLens = []int{8, 12, 16, 24, 32}

var ErrNicknameExhausted = errors.New("members: could not derive a free nickname")

// Resolver implementa find-or-create sobre AccountRepository.
//
// El chequeo de nickname y el insert no son atómicos: dos primeros logins
// concurrentes con el mismo nickname pueden chocar en el UNIQUE del store.
// Ese choque se devuelve como repository.ErrConflict, sin reintento.
type Resolver struct {
	repo  repository.AccountRepository
	newID func() string
	now   func() time.Time
}

type Option func(*Resolver)

// WithIDGenerator reemplaza uuid.NewString (tests).
func WithIDGenerator(f func() string) Option { return func(r *Resolver) { r.newID = f } }

// WithClock reemplaza time.Now.
func WithClock(f func() time.Time) Option { return func(r *Resolver) { r.now = f } }

func NewResolver(repo repository.AccountRepository, opts ...Option) *Resolver {
	r := &Resolver{repo: repo, newID: uuid.NewString, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResolveOrCreate retorna la cuenta del par (ProviderID, Provider); la crea si no existe.
// Una cuenta existente se devuelve tal cual, sin refrescar email ni imagen.
func (r *Resolver) ResolveOrCreate(ctx context.Context, p providers.Profile) (*repository.Account, error) {
	if p.ProviderID == "" || p.Provider == "" {
		return nil, fmt.Errorf("members: %w: provider identity required", repository.ErrInvalidInput)
	}

	acc, err := r.repo.GetByProvider(ctx, p.ProviderID, p.Provider)
	if err == nil {
		return acc, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("members: lookup by provider: %w", err)
	}

	id := r.newID()
	nick, err := r.freeNickname(ctx, p.Nickname, id)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	acc = &repository.Account{
		ID:           id,
		Email:        p.Email,
		Nickname:     nick,
		ImageURL:     p.ImageURL,
		ProviderID:   p.ProviderID,
		ProviderType: p.Provider,
		Admin:        false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.repo.Create(ctx, acc); err != nil {
		return nil, fmt.Errorf("members: create account: %w", err)
	}

	logger.From(ctx).Info("account created",
		logger.Component("members"),
		logger.AccountID(acc.ID),
		logger.Provider(acc.ProviderType),
		logger.Nickname(acc.Nickname),
	)
	return acc, nil
}

// freeNickname devuelve requested si está libre; si no, requested_<hex del id>
// alargando el sufijo mientras siga ocupado.
func (r *Resolver) freeNickname(ctx context.Context, requested, id string) (string, error) {
	base := normalizeNickname(requested)

	taken, err := r.repo.NicknameTaken(ctx, base)
	if err != nil {
		return "", fmt.Errorf("members: nickname check: %w", err)
	}
	if !taken {
		return base, nil
	}

	hex := strings.ReplaceAll(id, "-", "")
	for _, n := range suffixLens {
		if n > len(hex) {
			n = len(hex)
		}
		candidate := base + "_" + hex[:n]
		taken, err := r.repo.NicknameTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("members: nickname check: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %w", ErrNicknameExhausted, repository.ErrConflict)
}

func normalizeNickname(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultNickname
	}
	if utf8.RuneCountInString(s) > maxBaseRunes {
		s = string([]rune(s)[:maxBaseRunes])
	}
	return s
}

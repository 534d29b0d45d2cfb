// Package memory implementa AccountRepository en memoria (driver de desarrollo
// y tests). Los índices viven en go-cache sin expiración.
package memory

import (
	"context"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
)

// AccountRepo guarda cuentas por id con índices secundarios por proveedor y nickname.
type AccountRepo struct {
	mu sync.Mutex // serializa Create/SetAdmin; las lecturas van directo a go-cache
	c  *gocache.Cache
}

var _ repository.AccountRepository = (*AccountRepo)(nil)

func NewAccountRepo() *AccountRepo {
	return &AccountRepo{c: gocache.New(gocache.NoExpiration, 0)}
}

func idKey(id string) string               { return "id:" + id }
func providerKey(pid, ptype string) string { return "prov:" + ptype + ":" + pid }
func nickKey(n string) string              { return "nick:" + n }

func (r *AccountRepo) GetByID(ctx context.Context, id string) (*repository.Account, error) {
	v, ok := r.c.Get(idKey(id))
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := v.(repository.Account)
	return &a, nil
}

func (r *AccountRepo) GetByProvider(ctx context.Context, providerID, providerType string) (*repository.Account, error) {
	id, ok := r.c.Get(providerKey(providerID, providerType))
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id.(string))
}

func (r *AccountRepo) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	_, ok := r.c.Get(nickKey(nickname))
	return ok, nil
}

// Create aplica las mismas unicidades que el esquema postgres.
func (r *AccountRepo) Create(ctx context.Context, a *repository.Account) error {
	if a == nil || a.ID == "" {
		return repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.c.Get(idKey(a.ID)); ok {
		return repository.ErrConflict
	}
	if _, ok := r.c.Get(providerKey(a.ProviderID, a.ProviderType)); ok {
		return repository.ErrConflict
	}
	if _, ok := r.c.Get(nickKey(a.Nickname)); ok {
		return repository.ErrConflict
	}

	r.c.SetDefault(idKey(a.ID), *a)
	r.c.SetDefault(providerKey(a.ProviderID, a.ProviderType), a.ID)
	r.c.SetDefault(nickKey(a.Nickname), a.ID)
	return nil
}

func (r *AccountRepo) SetAdmin(ctx context.Context, id string, admin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.c.Get(idKey(id))
	if !ok {
		return repository.ErrNotFound
	}
	a := v.(repository.Account)
	a.Admin = admin
	r.c.SetDefault(idKey(id), a)
	return nil
}

// Count retorna la cantidad de cuentas.
func (r *AccountRepo) Count() int {
	n := 0
	for k := range r.c.Items() {
		if strings.HasPrefix(k, "id:") {
			n++
		}
	}
	return n
}

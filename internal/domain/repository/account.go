package repository

import (
	"context"
	"time"
)

// Account es la cuenta local creada en el primer login federado.
// (ProviderID, ProviderType) es único; Nickname es único entre todas las cuentas.
type Account struct {
	ID           string
	Email        string
	Nickname     string
	ImageURL     string
	ProviderID   string
	ProviderType string
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountRepository persiste cuentas. Este subsistema nunca borra cuentas.
type AccountRepository interface {
	// GetByID retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByProvider busca por el par (providerID, providerType).
	// Retorna ErrNotFound si no existe.
	GetByProvider(ctx context.Context, providerID, providerType string) (*Account, error)

	// NicknameTaken indica si algún registro ya usa ese nickname.
	NicknameTaken(ctx context.Context, nickname string) (bool, error)

	// Create inserta la cuenta. Retorna ErrConflict si viola alguna unicidad.
	Create(ctx context.Context, a *Account) error
}

// AccountAdmin operaciones de operación fuera del flujo de login (CLI).
type AccountAdmin interface {
	// SetAdmin retorna ErrNotFound si la cuenta no existe.
	SetAdmin(ctx context.Context, id string, admin bool) error
}

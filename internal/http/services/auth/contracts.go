package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
	jwtx "github.com/dropDatabas3/shelfauth/internal/jwt"
	"github.com/dropDatabas3/shelfauth/internal/providers"
)

// ─── Colaboradores ───

// ProviderLogin canjea un authorization code por el Profile del proveedor.
type ProviderLogin interface {
	Login(ctx context.Context, provider, code string) (providers.Profile, error)
}

// MemberResolver busca o crea la cuenta local de un Profile federado.
type MemberResolver interface {
	ResolveOrCreate(ctx context.Context, p providers.Profile) (*repository.Account, error)
}

// TokenIssuer emite y verifica pares de tokens.
type TokenIssuer interface {
	IssuePair(a *repository.Account) (jwtx.Pair, error)
	Verify(token string, role jwtx.KeyRole) (*jwtx.Claims, error)
	RefreshTTL() time.Duration
	Now() time.Time
}

// AccountReader carga cuentas por id.
type AccountReader interface {
	GetByID(ctx context.Context, id string) (*repository.Account, error)
}

// ─── Errores ───

var (
	// ErrTokenNotFound el refresh presentado no es el activo de la cuenta
	// (nunca existió, fue reemplazado, hubo logout o la cuenta no existe).
	ErrTokenNotFound = errors.New("auth: refresh token not found")
)

// resultados para las métricas de login/reissue
const (
	resultOK            = "ok"
	resultUnsupported   = "unsupported"
	resultProviderError = "provider_error"
	resultInvalidToken  = "invalid_token"
	resultNotFound      = "not_found"
	resultError         = "error"
)

package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
	jwtx "github.com/dropDatabas3/shelfauth/internal/jwt"
	"github.com/dropDatabas3/shelfauth/internal/metrics"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// =================================================================================
// AUTHENTICATION
// =================================================================================

// TokenVerifier verifica tokens contra un rol de clave explícito.
type TokenVerifier interface {
	Verify(token string, role jwtx.KeyRole) (*jwtx.Claims, error)
}

// BlacklistChecker consulta la lista de access tokens revocados.
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// AccountFinder carga la cuenta del sub del token.
type AccountFinder interface {
	GetByID(ctx context.Context, id string) (*repository.Account, error)
}

// BearerToken extrae el token de "Authorization: Bearer <token>". "" si no hay.
func BearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(ah) < 7 || !strings.EqualFold(ah[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[7:])
}

// Authenticate resuelve la identidad opcional del request. Nunca responde 401:
// cualquier falla (token inválido, revocado, store caído, cuenta inexistente)
// deja el request anónimo y los guards deciden.
func Authenticate(v TokenVerifier, bl BlacklistChecker, accounts AccountFinder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			id := resolveIdentity(ctx, raw, v, bl, accounts)
			if id == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx = WithIdentity(ctx, id)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.AccountID(id.AccountID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveIdentity(ctx context.Context, raw string, v TokenVerifier, bl BlacklistChecker, accounts AccountFinder) *Identity {
	log := logger.From(ctx).With(logger.Layer("middleware"), logger.Op("Authenticate"))

	claims, err := v.Verify(raw, jwtx.AccessKey)
	if err != nil {
		log.Debug("bearer rejected", logger.Err(err))
		return nil
	}

	revoked, err := bl.IsBlacklisted(ctx, raw)
	if err != nil {
		log.Warn("blacklist lookup failed, treating request as anonymous", logger.Err(err))
		return nil
	}
	if revoked {
		metrics.RecordBlacklistHit()
		log.Debug("bearer revoked", logger.AccountID(claims.Subject))
		return nil
	}

	acc, err := accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if !repository.IsNotFound(err) {
			log.Warn("account lookup failed", logger.AccountID(claims.Subject), logger.Err(err))
		}
		return nil
	}

	return &Identity{
		AccountID: acc.ID,
		Nickname:  acc.Nickname,
		Admin:     acc.Admin,
		Token:     raw,
		ExpiresAt: claims.ExpiresAt,
	}
}

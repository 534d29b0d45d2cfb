package auth

import (
	"context"
	"fmt"
	"strings"

	jwtx "github.com/dropDatabas3/shelfauth/internal/jwt"
	"github.com/dropDatabas3/shelfauth/internal/metrics"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// LogoutService revoca la sesión del bearer presentado.
type LogoutService interface {
	// Logout es idempotente. Un token ausente, inválido o ya revocado no es error.
	Logout(ctx context.Context, accessToken string) error
}

type logoutService struct {
	deps Deps
}

// NewLogoutService crea un nuevo service de logout.
func NewLogoutService(deps Deps) LogoutService {
	return &logoutService{deps: deps}
}

func (s *logoutService) Logout(ctx context.Context, accessToken string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("Logout"),
	)

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil
	}

	claims, err := s.deps.Issuer.Verify(accessToken, jwtx.AccessKey)
	if err != nil {
		log.Debug("logout with unverifiable token ignored", logger.Err(err))
		return nil
	}

	// Un token ya revocado no puede borrar el refresh de una sesión posterior.
	revoked, err := s.deps.Tokens.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil
	}

	if err := s.deps.Tokens.Blacklist(ctx, accessToken, claims.Remaining(s.deps.Issuer.Now())); err != nil {
		return fmt.Errorf("blacklist access: %w", err)
	}
	if err := s.deps.Tokens.DeleteRefresh(ctx, claims.Subject); err != nil {
		return fmt.Errorf("delete refresh: %w", err)
	}

	metrics.RecordLogout()
	log.Info("logout", logger.AccountID(claims.Subject))
	return nil
}

package auth

import (
	"context"
	"errors"
	"fmt"

	dto "github.com/dropDatabas3/shelfauth/internal/http/dto/auth"
	"github.com/dropDatabas3/shelfauth/internal/metrics"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
	"github.com/dropDatabas3/shelfauth/internal/providers"
)

// LoginService define el login federado.
type LoginService interface {
	// Login canjea code en el proveedor, resuelve la cuenta y emite un par nuevo.
	// El refresh emitido reemplaza cualquier refresh anterior de la cuenta.
	Login(ctx context.Context, provider, code string) (*dto.TokenPairResponse, error)
}

type loginService struct {
	deps Deps
}

// NewLoginService crea un nuevo service de login.
func NewLoginService(deps Deps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) Login(ctx context.Context, provider, code string) (*dto.TokenPairResponse, error) {
	provider = providers.NormalizeTag(provider)
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
		logger.Provider(provider),
	)

	profile, err := s.deps.Providers.Login(ctx, provider, code)
	if err != nil {
		if errors.Is(err, providers.ErrUnsupportedProvider) {
			// el tag viene del path; no se usa como label
			metrics.RecordLogin("unknown", resultUnsupported)
		} else {
			metrics.RecordLogin(provider, resultProviderError)
		}
		return nil, err
	}

	acc, err := s.deps.Members.ResolveOrCreate(ctx, profile)
	if err != nil {
		metrics.RecordLogin(provider, resultError)
		return nil, fmt.Errorf("resolve member: %w", err)
	}

	pair, err := s.deps.Issuer.IssuePair(acc)
	if err != nil {
		metrics.RecordLogin(provider, resultError)
		return nil, fmt.Errorf("issue pair: %w", err)
	}

	if err := s.deps.Tokens.PutRefresh(ctx, acc.ID, pair.RefreshToken, s.deps.Issuer.RefreshTTL()); err != nil {
		metrics.RecordLogin(provider, resultError)
		return nil, fmt.Errorf("store refresh: %w", err)
	}

	metrics.RecordLogin(provider, resultOK)
	log.Info("login succeeded", logger.AccountID(acc.ID))

	return &dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
	dto "github.com/dropDatabas3/shelfauth/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/shelfauth/internal/jwt"
	"github.com/dropDatabas3/shelfauth/internal/metrics"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
	"github.com/dropDatabas3/shelfauth/internal/tokenstore"
)

// ReissueService canjea un refresh token por un par nuevo.
type ReissueService interface {
	// Reissue siempre rota: el refresh presentado deja de servir.
	// Errores: jwt.ErrInvalidSignature | jwt.ErrMalformedToken | jwt.ErrTokenExpired | ErrTokenNotFound.
	Reissue(ctx context.Context, in dto.ReissueRequest) (*dto.TokenPairResponse, error)
}

type reissueService struct {
	deps Deps
}

// NewReissueService crea un nuevo service de reissue.
func NewReissueService(deps Deps) ReissueService {
	return &reissueService{deps: deps}
}

func (s *reissueService) Reissue(ctx context.Context, in dto.ReissueRequest) (*dto.TokenPairResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.reissue"),
		logger.Op("Reissue"),
	)

	presented := strings.TrimSpace(in.RefreshToken)
	if presented == "" {
		metrics.RecordReissue(resultNotFound)
		return nil, ErrTokenNotFound
	}

	claims, err := s.deps.Issuer.Verify(presented, jwtx.RefreshKey)
	if err != nil {
		metrics.RecordReissue(resultInvalidToken)
		return nil, err
	}
	log = log.With(logger.AccountID(claims.Subject))

	stored, err := s.deps.Tokens.GetRefresh(ctx, claims.Subject)
	if err != nil {
		if tokenstore.IsNotFound(err) {
			metrics.RecordReissue(resultNotFound)
			return nil, ErrTokenNotFound
		}
		metrics.RecordReissue(resultError)
		return nil, fmt.Errorf("load refresh: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) != 1 {
		metrics.RecordReissue(resultNotFound)
		log.Debug("superseded refresh presented")
		return nil, ErrTokenNotFound
	}

	acc, err := s.deps.Accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if repository.IsNotFound(err) {
			metrics.RecordReissue(resultNotFound)
			return nil, ErrTokenNotFound
		}
		metrics.RecordReissue(resultError)
		return nil, fmt.Errorf("load account: %w", err)
	}

	pair, err := s.deps.Issuer.IssuePair(acc)
	if err != nil {
		metrics.RecordReissue(resultError)
		return nil, fmt.Errorf("issue pair: %w", err)
	}
	if err := s.deps.Tokens.PutRefresh(ctx, acc.ID, pair.RefreshToken, s.deps.Issuer.RefreshTTL()); err != nil {
		metrics.RecordReissue(resultError)
		return nil, fmt.Errorf("store refresh: %w", err)
	}

	metrics.RecordReissue(resultOK)
	log.Debug("refresh rotated")

	return &dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

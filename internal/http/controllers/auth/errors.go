package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/dropDatabas3/shelfauth/internal/domain/repository"
	httperrors "github.com/dropDatabas3/shelfauth/internal/http/errors"
	"github.com/dropDatabas3/shelfauth/internal/http/helpers"
	svc "github.com/dropDatabas3/shelfauth/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/shelfauth/internal/jwt"
	"github.com/dropDatabas3/shelfauth/internal/providers"
)

// ─── Error Mapping ───

// writeAuthError traduce errores de dominio a códigos estables.
// Lo que no se reconoce termina en INTERNAL_ERROR y se loguea.
func writeAuthError(ctx context.Context, w http.ResponseWriter, err error) {
	httperrors.WriteErrorCtx(ctx, w, mapAuthError(err))
}

func mapAuthError(err error) error {
	switch {
	case errors.Is(err, providers.ErrUnsupportedProvider):
		return httperrors.ErrUnsupportedProvider
	case errors.Is(err, providers.ErrMissingCode):
		return httperrors.ErrBadRequest.WithDetail("falta el parámetro code")
	case errors.Is(err, providers.ErrProviderExchange),
		errors.Is(err, providers.ErrInvalidPayload),
		errors.Is(err, repository.ErrInvalidInput):
		return httperrors.ErrProvider.WithCause(err)

	case errors.Is(err, jwtx.ErrTokenExpired):
		return httperrors.ErrExpiredToken
	case errors.Is(err, jwtx.ErrInvalidSignature), errors.Is(err, jwtx.ErrMalformedToken):
		return httperrors.ErrInvalidToken
	case errors.Is(err, svc.ErrTokenNotFound):
		return httperrors.ErrTokenNotFound

	case errors.Is(err, helpers.ErrBadJSON), errors.Is(err, helpers.ErrContentType):
		return httperrors.ErrInvalidJSON.WithDetail(err.Error())
	case errors.Is(err, repository.ErrConflict):
		return httperrors.ErrConflict.WithCause(err)

	default:
		return httperrors.ErrInternal.WithCause(err)
	}
}

package middlewares

import (
	"net/http"

	httperrors "github.com/dropDatabas3/shelfauth/internal/http/errors"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// WithRecover captura panics y devuelve INTERNAL_ERROR en lugar de crashear.
// http.ErrAbortHandler se re-lanza: es la forma de net/http de cortar la respuesta.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.From(r.Context()).Error("panic recovered",
					logger.Op("recover"),
					logger.Any("panic", rec),
				)
				httperrors.WriteError(w, httperrors.ErrInternal)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

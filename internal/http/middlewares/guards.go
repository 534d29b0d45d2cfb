package middlewares

import (
	"net/http"

	httperrors "github.com/dropDatabas3/shelfauth/internal/http/errors"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// =================================================================================
// AUTHORIZATION GUARDS
// =================================================================================

// Guard es un predicado con nombre sobre la identidad del request.
// Check retorna nil si permite o el AppError a responder si niega.
type Guard struct {
	Name  string
	Check func(id *Identity) *httperrors.AppError
}

// Authenticated exige una identidad.
var Authenticated = Guard{
	Name: "authenticated",
	Check: func(id *Identity) *httperrors.AppError {
		if id == nil {
			return httperrors.ErrUnauthorized
		}
		return nil
	},
}

// Admin exige una identidad con flag admin.
var Admin = Guard{
	Name: "admin",
	Check: func(id *Identity) *httperrors.AppError {
		if id == nil {
			return httperrors.ErrUnauthorized
		}
		if !id.Admin {
			return httperrors.ErrForbidden
		}
		return nil
	},
}

// Require evalúa los guards en orden (AND). El primero que niega corta la
// cadena y escribe el error; el handler no se ejecuta.
func Require(guards ...Guard) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetIdentity(r.Context())
			for _, g := range guards {
				if appErr := g.Check(id); appErr != nil {
					logger.From(r.Context()).Debug("guard denied",
						logger.Layer("middleware"),
						logger.String("guard", g.Name),
						logger.String("code", appErr.Code),
					)
					if appErr.HTTPStatus == http.StatusUnauthorized {
						w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
					}
					httperrors.WriteError(w, appErr)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

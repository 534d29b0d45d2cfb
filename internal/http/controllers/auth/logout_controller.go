package auth

import (
	"net/http"

	mw "github.com/dropDatabas3/shelfauth/internal/http/middlewares"
	svc "github.com/dropDatabas3/shelfauth/internal/http/services/auth"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// LogoutController maneja POST /api/v1/auth/logout
type LogoutController struct {
	service svc.LogoutService
}

// NewLogoutController crea un nuevo controller de logout.
func NewLogoutController(service svc.LogoutService) *LogoutController {
	return &LogoutController{service: service}
}

// Logout revoca el bearer del request. Siempre 204 salvo falla del store.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	if err := c.service.Logout(ctx, mw.BearerToken(r)); err != nil {
		log.Warn("logout failed", logger.Err(err))
		writeAuthError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

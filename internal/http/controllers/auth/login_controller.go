package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/shelfauth/internal/http/helpers"
	svc "github.com/dropDatabas3/shelfauth/internal/http/services/auth"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// LoginController maneja GET /api/v1/oauth2/{provider}
type LoginController struct {
	service svc.LoginService
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login canjea ?code= en el proveedor del path y responde el par de tokens.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"), logger.Provider(provider))

	res, err := c.service.Login(ctx, provider, r.URL.Query().Get("code"))
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeAuthError(ctx, w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, res)
}

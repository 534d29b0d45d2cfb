package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/shelfauth/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/shelfauth/internal/http/errors"
	"github.com/dropDatabas3/shelfauth/internal/http/helpers"
	mw "github.com/dropDatabas3/shelfauth/internal/http/middlewares"
)

// MeController maneja GET /api/v1/auth/me. Va detrás de Require(Authenticated).
type MeController struct{}

func NewMeController() *MeController { return &MeController{} }

func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	id := mw.GetIdentity(r.Context())
	if id == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.MeResponse{
		AccountID: id.AccountID,
		Nickname:  id.Nickname,
		Admin:     id.Admin,
		ExpiresAt: id.ExpiresAt.UTC(),
	})
}

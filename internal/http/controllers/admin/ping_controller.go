package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/shelfauth/internal/http/dto/admin"
	"github.com/dropDatabas3/shelfauth/internal/http/helpers"
	mw "github.com/dropDatabas3/shelfauth/internal/http/middlewares"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// PingController maneja GET /api/v1/admin/ping. Va detrás de Require(Authenticated, Admin).
type PingController struct{}

func NewPingController() *PingController { return &PingController{} }

func (c *PingController) Ping(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := mw.GetAccountID(ctx)

	logger.From(ctx).Debug("admin ping", logger.Layer("controller"), logger.Op("PingController.Ping"))

	helpers.WriteJSON(w, http.StatusOK, dto.PingResponse{Status: "pong", AccountID: accountID})
}

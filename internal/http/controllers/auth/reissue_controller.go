package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/shelfauth/internal/http/dto/auth"
	"github.com/dropDatabas3/shelfauth/internal/http/helpers"
	svc "github.com/dropDatabas3/shelfauth/internal/http/services/auth"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// ReissueController maneja POST /api/v1/auth/reissue
type ReissueController struct {
	service svc.ReissueService
}

// NewReissueController crea un nuevo controller de reissue.
func NewReissueController(service svc.ReissueService) *ReissueController {
	return &ReissueController{service: service}
}

func (c *ReissueController) Reissue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ReissueController.Reissue"))

	var req dto.ReissueRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		writeAuthError(ctx, w, err)
		return
	}

	res, err := c.service.Reissue(ctx, req)
	if err != nil {
		log.Debug("reissue failed", logger.Err(err))
		writeAuthError(ctx, w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, res)
}

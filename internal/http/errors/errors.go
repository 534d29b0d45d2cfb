package errors

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// errorResponse controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe el envelope. La causa nunca se serializa.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

// WriteErrorCtx igual que WriteError pero loguea los 5xx con el logger del request.
func WriteErrorCtx(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.From(ctx).Error("request failed",
			logger.String("code", appErr.Code),
			logger.Err(appErr.Err),
		)
	}
	WriteError(w, appErr)
}

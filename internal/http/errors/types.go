// Package errors define el envelope de error HTTP {code, message[, detail]}.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError es el error estándar expuesto a clientes HTTP.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // No se serializa, usado para el header
	Err        error  `json:"-"` // Causa original, sólo para logs
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is compara por Code, así errors.Is(err, ErrForbidden) funciona con copias
// creadas por WithDetail/WithCause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// FromError convierte cualquier error en AppError. Lo que no sea AppError
// termina como INTERNAL_ERROR conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithCause(err)
}

// WithDetail devuelve una COPIA con detail; los errores base son globales.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// =================================================================================
// ERRORES PREDEFINIDOS
// =================================================================================

// 400
var (
	ErrBadRequest          = New(http.StatusBadRequest, "BAD_REQUEST", "La solicitud es inválida.")
	ErrInvalidJSON         = New(http.StatusBadRequest, "INVALID_JSON", "El cuerpo de la solicitud no es JSON válido.")
	ErrUnsupportedProvider = New(http.StatusBadRequest, "UNSUPPORTED_PROVIDER", "El proveedor de identidad no está soportado.")
)

// 401
var (
	ErrInvalidToken  = New(http.StatusUnauthorized, "INVALID_TOKEN", "El token es inválido.")
	ErrExpiredToken  = New(http.StatusUnauthorized, "EXPIRED_TOKEN", "El token expiró.")
	ErrTokenNotFound = New(http.StatusUnauthorized, "TOKEN_NOT_FOUND", "No se encontró un token vigente.")
	ErrUnauthorized  = New(http.StatusUnauthorized, "UNAUTHORIZED", "Se requiere autenticación.")
)

// 403 / 404 / 405
var (
	ErrForbidden        = New(http.StatusForbidden, "FORBIDDEN", "No tenés permisos para este recurso.")
	ErrNotFound         = New(http.StatusNotFound, "NOT_FOUND", "Recurso no encontrado.")
	ErrMethodNotAllowed = New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Método no permitido.")
)

// 409 / 429 / 5xx
var (
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, "RATE_LIMITED", "Demasiadas solicitudes. Probá más tarde.")
	ErrConflict           = New(http.StatusConflict, "CONFLICT", "El recurso entra en conflicto con uno existente.")
	ErrInternal           = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Error interno del servidor.")
	ErrProvider           = New(http.StatusBadGateway, "PROVIDER_ERROR", "El proveedor de identidad no respondió correctamente.")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Servicio no disponible.")
)

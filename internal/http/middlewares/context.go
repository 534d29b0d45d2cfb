package middlewares

import (
	"context"
	"time"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxIdentityKey guarda la Identity resuelta por Authenticate
	ctxIdentityKey ctxKey = "identity"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
	// ctxClientIPKey guarda la IP resuelta por WithClientIP
	ctxClientIPKey ctxKey = "client_ip"
)

// Identity es la cuenta resuelta para el request en curso. Vive sólo en el
// context.Context derivado para ese request.
type Identity struct {
	AccountID string
	Nickname  string
	Admin     bool
	// Token es el access token crudo que autenticó el request (lo usa logout).
	Token     string
	ExpiresAt time.Time
}

// =================================================================================
// CONTEXT SETTERS
// =================================================================================

// WithIdentity inyecta la identidad en el contexto.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS
// =================================================================================

// GetIdentity retorna nil para requests anónimos.
func GetIdentity(ctx context.Context) *Identity {
	if v, ok := ctx.Value(ctxIdentityKey).(*Identity); ok {
		return v
	}
	return nil
}

// GetAccountID retorna "" para requests anónimos.
func GetAccountID(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.AccountID
	}
	return ""
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}

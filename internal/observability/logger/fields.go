package logger

import (
	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// =================================================================================
// CAMPOS - AUTH
// =================================================================================

// AccountID identifica la cuenta local (claim sub).
func AccountID(v string) zap.Field { return zap.String("account_id", v) }

// Provider es el tag del proveedor federado (kakao, naver, google, github).
func Provider(v string) zap.Field { return zap.String("provider", v) }

// Nickname: usar solo en debug.
func Nickname(v string) zap.Field { return zap.String("nickname", v) }

// Driver identifica la implementación del token store.
func Driver(v string) zap.Field { return zap.String("driver", v) }

// =================================================================================
// CAMPOS - SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

func Any(key string, v any) zap.Field     { return zap.Any(key, v) }
func String(key, v string) zap.Field      { return zap.String(key, v) }
func Int64(key string, v int64) zap.Field { return zap.Int64(key, v) }

package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/shelfauth/internal/metrics"
)

// WithMetrics instrumenta requests (contador, latencia, inflight). La etiqueta
// path es el patrón de ruta de chi; rutas sin match quedan como "unmatched".
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.InflightInc()
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				metrics.InflightDec()
				metrics.ObserveHTTP(strings.ToUpper(r.Method), routePattern(r), rec.status, time.Since(start))
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

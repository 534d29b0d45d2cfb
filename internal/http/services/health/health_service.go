package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/shelfauth/internal/http/dto/health"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Version    string
	TokenStore func(ctx context.Context) error // crítico
	DB         func(ctx context.Context) error // nil: cuentas en memoria
	Timeout    time.Duration                   // por componente; default 2s
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Status:     "ready",
		Components: make(map[string]dto.HealthStatus, 2),
		Version:    s.deps.Version,
		Timestamp:  time.Now().UTC(),
	}

	check := func(name string, fn func(context.Context) error) {
		if fn == nil {
			response.Components[name] = dto.HealthStatus{Status: "disabled"}
			return
		}
		cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
		defer cancel()
		if err := fn(cctx); err != nil {
			response.Components[name] = dto.HealthStatus{Status: "error", Message: err.Error()}
			response.Status = "unavailable"
			log.Error(name+" unavailable", logger.Err(err))
			return
		}
		response.Components[name] = dto.HealthStatus{Status: "ok"}
	}

	check("token_store", s.deps.TokenStore)
	check("db", s.deps.DB)

	return response
}

package tokenstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/shelfauth/internal/metrics"
	"github.com/dropDatabas3/shelfauth/internal/observability/logger"
)

// Sweeper ejecuta Purge periódicamente hasta que ctx termina.
type Sweeper struct {
	store    Store
	interval time.Duration
	timeout  time.Duration
}

func NewSweeper(s Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{store: s, interval: interval, timeout: 30 * time.Second}
}

// Run bloquea hasta ctx.Done. Un Purge fallido se loguea y se reintenta
// en el siguiente tick.
func (sw *Sweeper) Run(ctx context.Context) error {
	log := logger.From(ctx).With(logger.Component("tokenstore.sweeper"))
	log.Info("sweeper started", zap.Duration("interval", sw.interval))

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("sweeper stopped")
			return nil
		case <-ticker.C:
			if _, err := sw.SweepOnce(ctx); err != nil {
				log.Warn("purge failed", logger.Err(err))
			}
		}
	}
}

// SweepOnce ejecuta un Purge con timeout propio.
func (sw *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	pctx, cancel := context.WithTimeout(ctx, sw.timeout)
	defer cancel()

	n, err := sw.store.Purge(pctx)
	if err != nil {
		return 0, err
	}
	metrics.RecordPurged(n)
	if n > 0 {
		logger.From(ctx).Debug("expired tokens purged", logger.Component("tokenstore.sweeper"), logger.Int64("purged", n))
	}
	return n, nil
}

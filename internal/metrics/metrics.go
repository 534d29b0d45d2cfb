// Package metrics agrupa los collectors Prometheus del servicio. Vive en un paquete
// propio para que tokenstore, services y middlewares puedan registrar eventos sin
// ciclos de import.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	httpInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo",
	})

	// Auth
	loginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Logins federados por provider y resultado",
	}, []string{"provider", "result"}) // result: ok|unsupported|provider_error|error

	reissuesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_reissues_total",
		Help: "Reissues de token por resultado",
	}, []string{"result"}) // result: ok|invalid_token|not_found|error

	logoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_logouts_total",
		Help: "Logouts procesados",
	})

	blacklistHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_blacklist_hits_total",
		Help: "Requests con bearer revocado degradadas a anónimo",
	})

	purgedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "token_store_purged_total",
		Help: "Entradas expiradas eliminadas por el sweeper",
	})
)

// Config agrupa dependencias para exponer /metrics.
type Config struct {
	Registry prometheus.Registerer
	// Pool opcional; si se provee se exponen gauges del pool pgx.
	Pool func() *pgxpool.Pool
}

// Register registra todos los collectors (idempotente por registry) y devuelve el handler de /metrics.
func Register(cfg Config) (http.Handler, error) {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	for _, c := range []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		httpInflight,
		loginsTotal,
		reissuesTotal,
		logoutsTotal,
		blacklistHitsTotal,
		purgedTotal,
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}

	if cfg.Pool != nil {
		if err := registerCollector(reg, newPoolCollector(cfg.Pool)); err != nil {
			return nil, err
		}
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{}), nil
	}
	return promhttp.Handler(), nil
}

// registerCollector registra el collector ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

func InflightInc() { httpInflight.Inc() }
func InflightDec() { httpInflight.Dec() }

// ObserveHTTP registra un request terminado. path debe ser el patrón de ruta,
// nunca el path crudo, para no explotar la cardinalidad.
func ObserveHTTP(method, path string, status int, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func RecordLogin(provider, result string) { loginsTotal.WithLabelValues(provider, result).Inc() }
func RecordReissue(result string)         { reissuesTotal.WithLabelValues(result).Inc() }
func RecordLogout()                       { logoutsTotal.Inc() }
func RecordBlacklistHit()                 { blacklistHitsTotal.Inc() }

func RecordPurged(n int64) {
	if n > 0 {
		purgedTotal.Add(float64(n))
	}
}

// poolCollector expone gauges del pool pgx global.
type poolCollector struct {
	pool func() *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
}

func newPoolCollector(pool func() *pgxpool.Pool) *poolCollector {
	return &poolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pg_pool_acquired", "Conexiones adquiridas", nil, nil),
		idleDesc:     prometheus.NewDesc("pg_pool_idle", "Conexiones inactivas", nil, nil),
		totalDesc:    prometheus.NewDesc("pg_pool_total", "Conexiones totales", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	p := c.pool()
	if p == nil {
		return
	}
	stat := p.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
}

package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig credenciales OAuth2 de un proveedor. TokenURL/UserInfoURL
// vacíos usan los endpoints por defecto del proveedor.
type ProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	TokenURL     string `yaml:"token_url"`
	UserInfoURL  string `yaml:"userinfo_url"`
}

type Config struct {
	App struct {
		// dev | prod
		Env     string `yaml:"env"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadHeaderTimeout  time.Duration `yaml:"read_header_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
		// TrustedProxies IPs o CIDRs cuyo X-Forwarded-For se respeta. Vacío:
		// la IP del cliente es siempre la del socket.
		TrustedProxies     []string      `yaml:"trusted_proxies"`
	} `yaml:"server"`

	// Database vacío (sin DSN) = cuentas en memoria.
	Database struct {
		DSN             string        `yaml:"dsn"`
		MaxConns        int32         `yaml:"max_conns"`
		MinConns        int32         `yaml:"min_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
		// Migrate corre las migraciones goose al arrancar serve.
		Migrate bool `yaml:"migrate"`
	} `yaml:"database"`

	JWT struct {
		AccessSecret  string        `yaml:"access_secret"`
		RefreshSecret string        `yaml:"refresh_secret"`
		Issuer        string        `yaml:"issuer"`
		AccessTTL     time.Duration `yaml:"access_ttl"`
		RefreshTTL    time.Duration `yaml:"refresh_ttl"`
		Leeway        time.Duration `yaml:"leeway"`
	} `yaml:"jwt"`

	TokenStore struct {
		Driver        string        `yaml:"driver"` // memory | redis | postgres
		Prefix        string        `yaml:"prefix"`
		SweepInterval time.Duration `yaml:"sweep_interval"`
		Redis         struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"token_store"`

	// Providers por tag (kakao, naver, google, github). Sólo los presentes
	// quedan habilitados.
	Providers map[string]ProviderConfig `yaml:"providers"`

	// RateLimit para login y reissue, por IP + ruta. Usa Redis si el token
	// store es redis; si no, memoria del proceso.
	RateLimit struct {
		Enabled bool          `yaml:"enabled"`
		Max     int           `yaml:"max"`
		Window  time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Load lee el YAML en path (opcional), aplica defaults y overrides de entorno y valida.
func Load(path string) (*Config, error) {
	var c Config
	c.Metrics.Enabled = true
	c.RateLimit.Enabled = true

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 15 * time.Minute
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = 14 * 24 * time.Hour
	}
	if c.TokenStore.Driver == "" {
		c.TokenStore.Driver = "memory"
	}
	c.TokenStore.Driver = strings.ToLower(strings.TrimSpace(c.TokenStore.Driver))
	if c.TokenStore.Prefix == "" {
		c.TokenStore.Prefix = "shelfauth:"
	}
	if c.TokenStore.SweepInterval == 0 {
		c.TokenStore.SweepInterval = 10 * time.Minute
	}
	if c.RateLimit.Max == 0 {
		c.RateLimit.Max = 30
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.TokenStore.Redis.Addr == "" {
		c.TokenStore.Redis.Addr = "localhost:6379"
	}

	norm := make(map[string]ProviderConfig, len(c.Providers))
	for tag, p := range c.Providers {
		norm[strings.ToLower(strings.TrimSpace(tag))] = p
	}
	c.Providers = norm
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_VERSION"); ok {
		c.App.Version = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvDur("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}
	if v, ok := getEnvCSV("SERVER_TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}

	// DATABASE
	if v, ok := getEnvStr("DATABASE_DSN"); ok {
		c.Database.DSN = v
	}
	if v, ok := getEnvInt("DATABASE_MAX_CONNS"); ok {
		c.Database.MaxConns = int32(v)
	}
	if v, ok := getEnvBool("DATABASE_MIGRATE"); ok {
		c.Database.Migrate = v
	}

	// JWT
	if v, ok := getEnvStr("JWT_ACCESS_SECRET"); ok {
		c.JWT.AccessSecret = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_SECRET"); ok {
		c.JWT.RefreshSecret = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvDur("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
	if v, ok := getEnvDur("JWT_REFRESH_TTL"); ok {
		c.JWT.RefreshTTL = v
	}
	if v, ok := getEnvDur("JWT_LEEWAY"); ok {
		c.JWT.Leeway = v
	}

	// TOKEN STORE
	if v, ok := getEnvStr("TOKEN_STORE_DRIVER"); ok {
		c.TokenStore.Driver = v
	}
	if v, ok := getEnvStr("TOKEN_STORE_PREFIX"); ok {
		c.TokenStore.Prefix = v
	}
	if v, ok := getEnvDur("TOKEN_STORE_SWEEP_INTERVAL"); ok {
		c.TokenStore.SweepInterval = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.TokenStore.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.TokenStore.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.TokenStore.Redis.DB = v
	}

	// PROVIDERS: PROVIDERS=kakao,github habilita; PROVIDER_<TAG>_* completa.
	tags, _ := getEnvCSV("PROVIDERS")
	for tag := range c.Providers {
		tags = append(tags, tag)
	}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if c.Providers == nil {
			c.Providers = make(map[string]ProviderConfig)
		}
		p := c.Providers[tag]
		env := "PROVIDER_" + strings.ToUpper(tag) + "_"
		if v, ok := getEnvStr(env + "CLIENT_ID"); ok {
			p.ClientID = v
		}
		if v, ok := getEnvStr(env + "CLIENT_SECRET"); ok {
			p.ClientSecret = v
		}
		if v, ok := getEnvStr(env + "REDIRECT_URL"); ok {
			p.RedirectURL = v
		}
		if v, ok := getEnvStr(env + "TOKEN_URL"); ok {
			p.TokenURL = v
		}
		if v, ok := getEnvStr(env + "USERINFO_URL"); ok {
			p.UserInfoURL = v
		}
		c.Providers[tag] = p
	}

	// RATE LIMIT
	if v, ok := getEnvBool("RATE_LIMIT_ENABLED"); ok {
		c.RateLimit.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LIMIT_MAX"); ok {
		c.RateLimit.Max = v
	}
	if v, ok := getEnvDur("RATE_LIMIT_WINDOW"); ok {
		c.RateLimit.Window = v
	}

	// METRICS
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}
}

// Validate revisa los valores críticos. Reporta todos los problemas juntos.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("jwt.access_secret and jwt.refresh_secret are required"))
	} else if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("jwt.access_secret and jwt.refresh_secret must differ"))
	}
	if c.JWT.AccessTTL < 0 || c.JWT.RefreshTTL < 0 || c.JWT.Leeway < 0 {
		errs = append(errs, errors.New("jwt durations must not be negative"))
	}
	if c.JWT.AccessTTL > 0 && c.JWT.RefreshTTL > 0 && c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		errs = append(errs, errors.New("jwt.refresh_ttl must be longer than jwt.access_ttl"))
	}

	for _, p := range c.Server.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			errs = append(errs, fmt.Errorf("server.trusted_proxies: %q is not an IP or CIDR", p))
		}
	}

	switch c.TokenStore.Driver {
	case "", "memory", "redis":
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			errs = append(errs, errors.New("token_store.driver=postgres requires database.dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("token_store.driver %q unknown (memory|redis|postgres)", c.TokenStore.Driver))
	}
	if c.TokenStore.SweepInterval < 0 {
		errs = append(errs, errors.New("token_store.sweep_interval must not be negative"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.Max < 0 || c.RateLimit.Window < 0) {
		errs = append(errs, errors.New("rate_limit.max and rate_limit.window must not be negative"))
	}

	for tag, p := range c.Providers {
		if strings.TrimSpace(p.ClientID) == "" {
			errs = append(errs, fmt.Errorf("providers.%s.client_id is required", tag))
		}
	}

	return errors.Join(errs...)
}

// IsProd indica si app.env es prod.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_YAMLAndDefaults(t *testing.T) {
	p := writeYAML(t, `
jwt:
  access_secret: a-secret
  refresh_secret: r-secret
  access_ttl: 10m
providers:
  Kakao:
    client_id: kid
    client_secret: ksecret
`)
	c, err := Load(p)
	require.NoError(t, err)

	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, 10*time.Minute, c.JWT.AccessTTL)
	require.Equal(t, 14*24*time.Hour, c.JWT.RefreshTTL)
	require.Equal(t, "memory", c.TokenStore.Driver)
	require.Equal(t, 10*time.Minute, c.TokenStore.SweepInterval)
	require.True(t, c.Metrics.Enabled)
	require.True(t, c.RateLimit.Enabled)
	require.Equal(t, 30, c.RateLimit.Max)
	require.Equal(t, time.Minute, c.RateLimit.Window)
	require.Contains(t, c.Providers, "kakao")
	require.Equal(t, "kid", c.Providers["kakao"].ClientID)
}

func TestLoad_EnvOverrides(t *testing.T) {
	p := writeYAML(t, `
jwt:
  access_secret: a-secret
  refresh_secret: r-secret
`)
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("TOKEN_STORE_DRIVER", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PROVIDERS", "github")
	t.Setenv("PROVIDER_GITHUB_CLIENT_ID", "gh-id")
	t.Setenv("PROVIDER_GITHUB_TOKEN_URL", "http://localhost/token")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8,192.0.2.7")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, ":9090", c.Server.Addr)
	require.Equal(t, 5*time.Minute, c.JWT.AccessTTL)
	require.Equal(t, "redis", c.TokenStore.Driver)
	require.Equal(t, 3, c.TokenStore.Redis.DB)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.CORSAllowedOrigins)
	require.Equal(t, "gh-id", c.Providers["github"].ClientID)
	require.Equal(t, "http://localhost/token", c.Providers["github"].TokenURL)
	require.False(t, c.Metrics.Enabled)
	require.Equal(t, []string{"10.0.0.0/8", "192.0.2.7"}, c.Server.TrustedProxies)
	require.Equal(t, 5, c.RateLimit.Max)
	require.Equal(t, 30*time.Second, c.RateLimit.Window)
}

func TestLoad_WithoutFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "b")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", c.App.Env)
	require.False(t, c.IsProd())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.JWT.AccessSecret = "a"
		c.JWT.RefreshSecret = "b"
		c.applyDefaults()
		return c
	}

	require.NoError(t, base().Validate())

	c := base()
	c.JWT.RefreshSecret = "a"
	require.ErrorContains(t, c.Validate(), "must differ")

	c = base()
	c.JWT.AccessSecret = ""
	require.ErrorContains(t, c.Validate(), "required")

	c = base()
	c.TokenStore.Driver = "etcd"
	require.ErrorContains(t, c.Validate(), "unknown")

	c = base()
	c.TokenStore.Driver = "postgres"
	require.ErrorContains(t, c.Validate(), "database.dsn")

	c = base()
	c.JWT.RefreshTTL = time.Minute
	require.ErrorContains(t, c.Validate(), "longer than")

	c = base()
	c.Server.TrustedProxies = []string{"10.0.0.0/8", "::1", "proxy.internal"}
	require.ErrorContains(t, c.Validate(), `"proxy.internal" is not an IP or CIDR`)

	c = base()
	c.Providers = map[string]ProviderConfig{"naver": {}}
	require.ErrorContains(t, c.Validate(), "providers.naver.client_id")
}

func TestGetEnvCSV(t *testing.T) {
	t.Setenv("X_CSV", " a, ,b ")
	v, ok := getEnvCSV("X_CSV")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, v)

	_, ok = getEnvCSV("X_CSV_UNSET")
	require.False(t, ok)
}

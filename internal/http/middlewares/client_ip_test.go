package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/shelfauth/internal/rate"
)

func resolvedIP(t *testing.T, trusted TrustedProxies, remote string, xff ...string) string {
	t.Helper()
	var got string
	h := WithClientIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientIP(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remote
	for _, v := range xff {
		req.Header.Add("X-Forwarded-For", v)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestParseTrustedProxies(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.0.2.7 ", "", "::ffff:198.51.100.1"})
	require.NoError(t, err)
	require.Len(t, tp, 3)
	require.True(t, tp.trusts("10.20.30.40"))
	require.True(t, tp.trusts("192.0.2.7"))
	require.True(t, tp.trusts("198.51.100.1"))
	require.False(t, tp.trusts("192.0.2.8"))
	require.False(t, tp.trusts("not-an-ip"))

	_, err = ParseTrustedProxies([]string{"proxy.internal"})
	require.Error(t, err)
}

func TestWithClientIP(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	// sin proxies confiables el header se ignora
	require.Equal(t, "203.0.113.9", resolvedIP(t, nil, "203.0.113.9:4000", "1.2.3.4"))

	// peer no confiable: el header se ignora
	require.Equal(t, "203.0.113.9", resolvedIP(t, tp, "203.0.113.9:4000", "1.2.3.4"))

	// peer confiable: primer hop no confiable desde la derecha
	require.Equal(t, "198.51.100.4", resolvedIP(t, tp, "10.0.0.5:4000", "1.2.3.4, 198.51.100.4, 10.1.1.1"))
	require.Equal(t, "198.51.100.4", resolvedIP(t, tp, "10.0.0.5:4000", "1.2.3.4", "198.51.100.4"))

	// peer confiable sin header
	require.Equal(t, "10.0.0.5", resolvedIP(t, tp, "10.0.0.5:4000"))

	// todos los hops confiables: el más a la izquierda
	require.Equal(t, "10.9.9.9", resolvedIP(t, tp, "10.0.0.5:4000", "10.9.9.9, 10.1.1.1"))
}

func TestWithRateLimit_ForwardedHeaderDoesNotResetWindow(t *testing.T) {
	lim := rate.NewMemoryLimiter(1, time.Minute, nil)
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), WithClientIP(nil), WithRateLimit(RateLimitConfig{Limiter: lim}))

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/oauth2/kakao", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("1.1.1.1"))
	require.Equal(t, http.StatusTooManyRequests, send("2.2.2.2"))
	require.Equal(t, http.StatusTooManyRequests, send("3.3.3.3"))
}

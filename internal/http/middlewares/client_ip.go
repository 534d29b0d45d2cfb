package middlewares

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// =================================================================================
// CLIENT IP
// =================================================================================

// TrustedProxies redes cuyo X-Forwarded-For se respeta.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies acepta CIDRs ("10.0.0.0/8") o IPs sueltas ("192.0.2.7").
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	out := make(TrustedProxies, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: not an IP or CIDR", e)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (tp TrustedProxies) trusts(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range tp {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// resolve devuelve la IP del cliente. X-Forwarded-For sólo cuenta si el peer
// del socket es un proxy confiable; se recorre de derecha a izquierda y el
// primer hop no confiable es el cliente.
func (tp TrustedProxies) resolve(r *http.Request) string {
	peer := remoteHost(r)
	if len(tp) == 0 || !tp.trusts(peer) {
		return peer
	}
	xff := r.Header.Values("X-Forwarded-For")
	if len(xff) == 0 {
		return peer
	}
	hops := strings.Split(strings.Join(xff, ","), ",")
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		client = hop
		if !tp.trusts(hop) {
			break
		}
	}
	return client
}

// WithClientIP resuelve la IP del cliente una vez por request. Logging y rate
// limit la leen del contexto.
func WithClientIP(trusted TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxClientIPKey, trusted.resolve(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP sin WithClientIP en la cadena es el peer del socket.
func clientIP(r *http.Request) string {
	if v, ok := r.Context().Value(ctxClientIPKey).(string); ok && v != "" {
		return v
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

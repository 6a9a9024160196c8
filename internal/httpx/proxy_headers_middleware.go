package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ProxyHeadersMiddleware applies X-Forwarded-For, X-Forwarded-Host and
// X-Forwarded-Proto to the request. Mount it only behind a proxy that
// overwrites these headers.
func ProxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.Clone(r.Context())

		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				r.RemoteAddr = net.JoinHostPort(ip.String(), "0")
			}
		}
		if host := r.Header.Get("X-Forwarded-Host"); host != "" {
			r.Host = host
		}
		switch proto := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); proto {
		case "http", "https":
			r.URL.Scheme = proto
		}

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net"
	"net/http"
	"strings"

	authguard "github.com/fsdiasv/authguard"
)

// ClientContext returns middleware that attaches the caller's IP, user agent,
// and preferred locale to the request context. Downstream guardian operations
// read these through the authguard context helpers; security checks use them
// for the user-agent and IP heuristics.
func ClientContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if ip := clientIP(r); ip != "" {
			ctx = authguard.WithClientIP(ctx, ip)
		}
		if ua := r.UserAgent(); ua != "" {
			ctx = authguard.WithUserAgent(ctx, ua)
		}
		if locale := preferredLocale(r.Header.Get("Accept-Language")); locale != "" {
			ctx = authguard.WithLocale(ctx, locale)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP prefers the first X-Forwarded-For hop and falls back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// preferredLocale extracts the primary language subtag from an
// Accept-Language header, e.g. "pt-BR,pt;q=0.9" yields "pt".
func preferredLocale(header string) string {
	if header == "" {
		return ""
	}

	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	first, _, _ = strings.Cut(strings.TrimSpace(first), "-")

	locale := strings.ToLower(first)
	if locale == "*" {
		return ""
	}
	return locale
}

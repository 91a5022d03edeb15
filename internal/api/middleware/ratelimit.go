package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/devfolio/blog-api/internal/api/respond"
	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/ratelimit"
)

// RateLimit applies a fixed-window per-client limit keyed by IP. Counter
// errors fail open: a broken counter should not take the public endpoints
// down with it.
func RateLimit(store ratelimit.Store, limit int, window time.Duration, keyPrefix string, wr *respond.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyPrefix + ":" + clientIP(r)
			count, err := store.Incr(r.Context(), key, window)
			if err == nil && count > int64(limit) {
				wr.Error(w, domain.NewTooManyRequestsError("Too many requests, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			forwarded = forwarded[:i]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

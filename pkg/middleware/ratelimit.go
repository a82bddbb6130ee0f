package middleware

import (
	"net"
	"net/http"
	"time"

	"crowdfunding/pkg/cache"
	"crowdfunding/pkg/utils"

	"go.uber.org/zap"
)

// RateLimit allows limit requests per window per client IP for the named resource.
// When the counter store is unavailable requests pass through.
func RateLimit(counter cache.Counter, resource string, limit int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if counter == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := counter.Allow(r.Context(), resource, "ip:"+clientIP(r), limit, window)
			if err != nil {
				logger.Warn("Rate limit store unavailable, allowing request",
					zap.String("resource", resource),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				utils.ResponseTooManyRequests(w, "Request was throttled. Try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

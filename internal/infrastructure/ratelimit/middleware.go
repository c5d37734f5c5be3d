package ratelimit

import (
	"encoding/json"
	"net/http"

	"crypto-market-service/internal/application/dto"
	"crypto-market-service/internal/infrastructure/config"
	"crypto-market-service/internal/infrastructure/logging"
	"crypto-market-service/internal/infrastructure/metrics"
	"crypto-market-service/internal/infrastructure/web/middleware"
)

// Middleware rejects requests from clients that exhausted their token
// bucket. Buckets are keyed by remote IP.
func Middleware(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	limiters := NewCollection(cfg.Capacity, cfg.RefillRate)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := middleware.RemoteIP(r)
			if !limiters.Allow(clientIP) {
				metrics.RecordRateLimitedRequest()
				logging.Warn(r.Context(), "Request rate limited", logging.Fields{
					"remote_ip": clientIP,
					"path":      r.URL.Path,
				})

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(dto.NewErrorResponse("Too many requests.", "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

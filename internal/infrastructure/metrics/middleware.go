package metrics

import (
	"net/http"
	"strings"
	"time"
)

// HTTPMetricsMiddleware collects request count and duration for Prometheus
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		wrapped := &responseWriterMetrics{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), wrapped.statusCode, time.Since(startTime).Seconds())
	})
}

// responseWriterMetrics wraps http.ResponseWriter to capture the status code
type responseWriterMetrics struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriterMetrics) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses per-coin paths so the path label stays bounded
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/api/crypto/coins/") && strings.HasSuffix(path, "/market-chart") {
		return "/api/crypto/coins/{coinId}/market-chart"
	}
	return path
}

package middleware

import (
	"net/http"
	"time"

	"crypto-market-service/internal/infrastructure/logging"
)

// responseWriter wraps http.ResponseWriter to capture the status code and
// bytes written
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// RequestTracing attaches a request ID to the context, echoes it in the
// X-Request-ID header and logs request start and completion.
func RequestTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		startTime := time.Now()
		ctx := logging.WithRequestID(r.Context(), requestID)
		ctx = logging.WithStartTime(ctx, startTime)

		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w}

		logging.Debug(ctx, "HTTP request started", logging.Fields{
			"http_method": r.Method,
			"http_path":   r.URL.Path,
			"remote_ip":   RemoteIP(r),
		})

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		logging.Info(ctx, "HTTP request completed", logging.Fields{
			"http_method":      r.Method,
			"http_path":        r.URL.Path,
			"http_status_code": wrapped.statusCode,
			"response_size":    wrapped.written,
			"response_time_ms": float64(time.Since(startTime).Nanoseconds()) / 1e6,
		})
	})
}

// RemoteIP extracts the client IP, honoring proxy headers
func RemoteIP(r *http.Request) string {
	if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		return xForwardedFor
	}
	if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
		return xRealIP
	}
	return r.RemoteAddr
}

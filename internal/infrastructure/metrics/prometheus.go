package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the crypto market service
var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_market_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crypto_market_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Cache metrics
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_market_cache_operations_total",
			Help: "Total number of response cache operations",
		},
		[]string{"operation", "result"}, // operation: get/put, result: hit/miss/expired/success/error
	)

	// External API metrics
	ExternalAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_market_external_api_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"endpoint", "status_code"},
	)

	ExternalAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crypto_market_external_api_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"endpoint"},
	)

	// Business metrics
	CatalogRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crypto_market_catalog_refreshes_total",
			Help: "Total number of background catalog persistence runs",
		},
		[]string{"result"}, // result: success/error
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crypto_market_catalog_size",
			Help: "Number of coins last written to the durable catalog",
		},
	)

	RateLimitedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crypto_market_rate_limited_requests_total",
			Help: "Total number of inbound requests rejected by the rate limiter",
		},
	)
)

// RecordHTTPRequest records metrics for one handled HTTP request
func RecordHTTPRequest(method, path string, statusCode int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordCacheOperation records a response cache get/put outcome
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordExternalAPICall records one upstream request by endpoint and status
func RecordExternalAPICall(endpoint string, statusCode int, durationSeconds float64) {
	ExternalAPIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	ExternalAPIRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordCatalogRefresh records the outcome of a background catalog write
func RecordCatalogRefresh(result string, size int) {
	CatalogRefreshesTotal.WithLabelValues(result).Inc()
	if result == "success" {
		CatalogSize.Set(float64(size))
	}
}

// RecordRateLimitedRequest counts an inbound 429
func RecordRateLimitedRequest() {
	RateLimitedRequestsTotal.Inc()
}

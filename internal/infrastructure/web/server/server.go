package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crypto-market-service/internal/infrastructure/config"
	"crypto-market-service/internal/infrastructure/logging"
	"crypto-market-service/internal/infrastructure/metrics"
	"crypto-market-service/internal/infrastructure/ratelimit"
	"crypto-market-service/internal/infrastructure/web/handlers"
	"crypto-market-service/internal/infrastructure/web/middleware"
)

// NewRouter builds the HTTP route tree with the shared middleware chain
func NewRouter(cryptoHandler *handlers.CryptoHandler, healthHandler *handlers.HealthHandler, cfg config.RateLimitConfig) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.CORS)
	router.Use(middleware.RequestTracing)
	router.Use(metrics.HTTPMetricsMiddleware)
	router.Use(ratelimit.Middleware(cfg))

	api := router.PathPrefix("/api/crypto").Subrouter()
	api.HandleFunc("/markets/top-gainer", cryptoHandler.TopGainer).Methods(http.MethodGet)
	api.HandleFunc("/markets/top-loser", cryptoHandler.TopLoser).Methods(http.MethodGet)
	api.HandleFunc("/coins/list", cryptoHandler.CoinList).Methods(http.MethodGet)
	api.HandleFunc("/coins/{coinId}/market-chart", cryptoHandler.MarketChart).Methods(http.MethodGet)

	router.HandleFunc("/test", healthHandler.Test).Methods(http.MethodGet)
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

// Server encapsulates HTTP server configuration
type Server struct {
	httpServer *http.Server
	port       int
}

// NewServer creates a new server instance
func NewServer(handler http.Handler, port int) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		port: port,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	ctx := context.Background()

	logging.Info(ctx, "HTTP server starting", logging.Fields{
		"port": s.port,
	})

	logging.Info(ctx, "Available endpoints", logging.Fields{
		"endpoints": []string{
			fmt.Sprintf("GET http://localhost:%d/api/crypto/markets/top-gainer", s.port),
			fmt.Sprintf("GET http://localhost:%d/api/crypto/markets/top-loser", s.port),
			fmt.Sprintf("GET http://localhost:%d/api/crypto/coins/list", s.port),
			fmt.Sprintf("GET http://localhost:%d/api/crypto/coins/{coinId}/market-chart?days=7", s.port),
			fmt.Sprintf("GET http://localhost:%d/test", s.port),
			fmt.Sprintf("GET http://localhost:%d/metrics", s.port),
		},
	})

	return s.httpServer.ListenAndServe()
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	logging.Info(ctx, "Stopping HTTP server gracefully", logging.Fields{
		"port": s.port,
	})
	return s.httpServer.Shutdown(ctx)
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"crypto-market-service/internal/application/services"
	"crypto-market-service/internal/infrastructure/config"
	"crypto-market-service/internal/infrastructure/logging"
	"crypto-market-service/internal/infrastructure/provider/coingecko"
	"crypto-market-service/internal/infrastructure/repositories/cache"
	"crypto-market-service/internal/infrastructure/repositories/catalog"
	"crypto-market-service/internal/infrastructure/web/handlers"
	"crypto-market-service/internal/infrastructure/web/server"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(&logging.LoggerConfig{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		Format:  cfg.Logging.Format,
		Service: "crypto-market-service",
		Output:  os.Stdout,
	})

	ctx := logging.WithRequestID(context.Background(), "")

	logging.Info(ctx, "Starting crypto market service", logging.Fields{
		"cache_backend":   cfg.Cache.Backend,
		"catalog_backend": cfg.Catalog.Backend,
		"cache_ttl":       cfg.Cache.TTL.String(),
	})

	cacheBackend, err := cache.NewCacheFromConfig(cfg.Cache)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to create cache backend", err, nil)
		os.Exit(1)
	}
	defer func() {
		_ = cacheBackend.Close()
	}()

	coinCatalog, err := catalog.NewCatalogFromConfig(cfg.Catalog)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to create coin catalog store", err, nil)
		os.Exit(1)
	}
	defer func() {
		_ = coinCatalog.Close()
	}()

	responseCache := cache.NewEntryCache(cacheBackend, cfg.Cache.TTL)
	provider := coingecko.NewClientWithConfig(cfg.CoinGecko)
	marketService := services.NewMarketService(provider, responseCache, coinCatalog)

	cryptoHandler := handlers.NewCryptoHandler(marketService)
	healthHandler := handlers.NewHealthHandler()

	router := server.NewRouter(cryptoHandler, healthHandler, cfg.RateLimit)
	srv := server.NewServer(router, cfg.Server.Port)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logging.ErrorWithError(ctx, "HTTP server failed", err, nil)
			os.Exit(1)
		}
	}()

	logging.Info(ctx, "Crypto market service is running", logging.Fields{
		"port": cfg.Server.Port,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info(ctx, "Shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(ctx, "Server forced to shutdown", err, nil)
		os.Exit(1)
	}

	logging.Info(ctx, "Server shutdown completed", nil)
}

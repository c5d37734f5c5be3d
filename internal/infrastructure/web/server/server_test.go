package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-market-service/internal/application/services"
	"crypto-market-service/internal/domain/entities"
	"crypto-market-service/internal/infrastructure/config"
	"crypto-market-service/internal/infrastructure/provider/coingecko"
	"crypto-market-service/internal/infrastructure/repositories/cache"
	"crypto-market-service/internal/infrastructure/repositories/catalog"
	"crypto-market-service/internal/infrastructure/web/handlers"
)

// testStack wires the full service against a fake upstream, with memory
// backends for cache and catalog.
type testStack struct {
	router   http.Handler
	upstream *httptest.Server
	catalog  *catalog.MemoryCatalog
	hits     *atomic.Int64
}

func newTestStack(t *testing.T, upstreamHandler http.HandlerFunc) *testStack {
	t.Helper()

	var hits atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		upstreamHandler(w, r)
	}))
	t.Cleanup(upstream.Close)

	client := coingecko.NewClientWithConfig(config.CoinGeckoConfig{
		BaseURL: upstream.URL,
		Timeout: 5 * time.Second,
	})

	responseCache := cache.NewEntryCache(cache.NewMemoryCache(), time.Minute)
	coinCatalog := catalog.NewMemoryCatalog()

	svc := services.NewMarketService(client, responseCache, coinCatalog)
	router := NewRouter(
		handlers.NewCryptoHandler(svc),
		handlers.NewHealthHandler(),
		config.RateLimitConfig{Enabled: false},
	)

	return &testStack{
		router:   router,
		upstream: upstream,
		catalog:  coinCatalog,
		hits:     &hits,
	}
}

func (s *testStack) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAPI_TopGainerCachedAcrossRequests(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "price_change_percentage_24h_desc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`[{"id":"pepe","symbol":"pepe","name":"Pepe","current_price":0.00001,"price_change_percentage_24h":42.5}]`))
	})

	first := stack.get("/api/crypto/markets/top-gainer")
	require.Equal(t, http.StatusOK, first.Code)

	second := stack.get("/api/crypto/markets/top-gainer")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, int64(1), stack.hits.Load())

	var mover entities.MarketSnapshot
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &mover))
	assert.Equal(t, "pepe", mover.ID)
	assert.InDelta(t, 42.5, mover.PriceChangePercentage24h, 0.001)
}

func TestAPI_TopGainerAndLoserHitUpstreamSeparately(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("order") {
		case "price_change_percentage_24h_desc":
			_, _ = w.Write([]byte(`[{"id":"pepe","price_change_percentage_24h":42.5}]`))
		case "price_change_percentage_24h_asc":
			_, _ = w.Write([]byte(`[{"id":"dogwifhat","price_change_percentage_24h":-18.3}]`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	gainer := stack.get("/api/crypto/markets/top-gainer")
	loser := stack.get("/api/crypto/markets/top-loser")

	require.Equal(t, http.StatusOK, gainer.Code)
	require.Equal(t, http.StatusOK, loser.Code)
	assert.Equal(t, int64(2), stack.hits.Load())
	assert.Contains(t, gainer.Body.String(), "pepe")
	assert.Contains(t, loser.Body.String(), "dogwifhat")
}

func TestAPI_MarketChartNormalizesDays(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`{"prices":[[1700000000000,64000.5]],"total_volumes":[[1700000000000,1200000]]}`))
	})

	// 90 is unsupported and falls back to the 7 day window
	first := stack.get("/api/crypto/coins/bitcoin/market-chart?days=90")
	require.Equal(t, http.StatusOK, first.Code)

	// The default window now comes from cache
	second := stack.get("/api/crypto/coins/bitcoin/market-chart?days=7")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, int64(1), stack.hits.Load())
}

func TestAPI_MarketChartUnknownCoinIs404(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"coin not found"}`))
	})

	rec := stack.get("/api/crypto/coins/ghostcoin/market-chart?days=7")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestAPI_UpstreamRateLimitIs400(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429,"error_message":"Throttled"}}`))
	})

	rec := stack.get("/api/crypto/markets/top-gainer")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// The failure was not cached; the next request reaches upstream again
	stack.get("/api/crypto/markets/top-gainer")
	assert.Equal(t, int64(2), stack.hits.Load())
}

func TestAPI_CoinListPersistsToCatalogInBackground(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/list", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin"},{"id":"ethereum","symbol":"eth","name":"Ethereum"}]`))
	})

	rec := stack.get("/api/crypto/coins/list")
	require.Equal(t, http.StatusOK, rec.Code)

	var coins []entities.CoinInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coins))
	assert.Len(t, coins, 2)

	// Persistence runs detached from the request
	require.Eventually(t, func() bool {
		return stack.catalog.Size() == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Later requests are served from the durable catalog, not upstream
	again := stack.get("/api/crypto/coins/list")
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, int64(1), stack.hits.Load())
}

func TestAPI_TestProbe(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := stack.get("/test")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), "Backend is healthy")
	assert.Zero(t, stack.hits.Load())
}

func TestAPI_MetricsEndpointExposed(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := stack.get("/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crypto_market")
}

func TestAPI_UnknownRouteIs404(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := stack.get("/api/crypto/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_CORSHeadersPresent(t *testing.T) {
	stack := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := stack.get("/test")

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

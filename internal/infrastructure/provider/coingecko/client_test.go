package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto-market-service/internal/infrastructure/config"
)

func newTestClient(baseURL, apiKey string) *Client {
	return NewClientWithConfig(config.CoinGeckoConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 5 * time.Second,
	})
}

func TestMarketSnapshots_Success(t *testing.T) {
	var gotQuery map[string]string
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/markets", r.URL.Path)
		gotAPIKey = r.Header.Get("x-cg-demo-api-key")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"pepe","symbol":"pepe","name":"Pepe","image":"https://img/pepe.png","current_price":0.00001,"price_change_percentage_24h":42.5},
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png","current_price":65000,"price_change_percentage_24h":1.2}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	snapshots, err := client.MarketSnapshots(context.Background(), "price_change_percentage_24h_desc", 1)

	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "pepe", snapshots[0].ID)
	assert.InDelta(t, 42.5, snapshots[0].PriceChangePercentage24h, 0.001)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "usd", gotQuery["vs_currency"])
	assert.Equal(t, "price_change_percentage_24h_desc", gotQuery["order"])
	assert.Equal(t, "1", gotQuery["per_page"])
	assert.Equal(t, "1", gotQuery["page"])
	assert.Equal(t, "false", gotQuery["sparkline"])
	assert.Equal(t, "24h", gotQuery["price_change_percentage"])
}

func TestMarketSnapshots_NoAPIKeyHeaderWhenUnset(t *testing.T) {
	var headerPresent bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, headerPresent = r.Header["X-Cg-Demo-Api-Key"]
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.MarketSnapshots(context.Background(), "price_change_percentage_24h_asc", 1)

	require.NoError(t, err)
	assert.False(t, headerPresent)
}

func TestDoGet_StatusClassification(t *testing.T) {
	cases := []struct {
		name       string
		statusCode int
		body       string
		wantKind   error
	}{
		{"not found", http.StatusNotFound, `{"error":"coin not found"}`, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, `{"status":{"error_code":429,"error_message":"You've exceeded the Rate Limit"}}`, ErrRateLimited},
		{"auth failure", http.StatusUnauthorized, `{"error":"invalid api key"}`, ErrAuthFailure},
		{"server error", http.StatusInternalServerError, ``, ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, ``, ErrUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "")
			_, err := client.CoinList(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantKind)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tc.statusCode, statusErr.StatusCode)
		})
	}
}

func TestStatusError_MessageExtraction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429,"error_message":"Throttled"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.CoinList(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "Throttled", statusErr.Message)
	assert.Contains(t, statusErr.Error(), "Throttled")
}

func TestMarketChart_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "14", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`{
			"prices":[[1700000000000,64000.5],[1700003600000,64100.25]],
			"total_volumes":[[1700000000000,1200000],[1700003600000,1250000]]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	series, err := client.MarketChart(context.Background(), "bitcoin", 14)

	require.NoError(t, err)
	require.NotNil(t, series)
	require.Len(t, series.Prices, 2)
	assert.Equal(t, int64(1700000000000), series.Prices[0].TimestampMillis)
	assert.InDelta(t, 64000.5, series.Prices[0].Value, 0.001)
	require.Len(t, series.TotalVolumes, 2)
}

func TestMarketChart_NullBodyMeansNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	series, err := client.MarketChart(context.Background(), "ghostcoin", 7)

	require.NoError(t, err)
	assert.Nil(t, series)
}

func TestMarketChart_EscapesCoinID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.MarketChart(context.Background(), "weird/coin", 7)

	require.NoError(t, err)
	assert.Equal(t, "/coins/weird%2Fcoin/market_chart", gotPath)
}

func TestCoinList_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coins/list", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("include_platform"))
		_, _ = w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin"},
			{"id":"ethereum","symbol":"eth","name":"Ethereum"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	coins, err := client.CoinList(context.Background())

	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "bitcoin", coins[0].CoinID)
	assert.Equal(t, "eth", coins[1].Symbol)
}

func TestCoinList_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.CoinList(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDoGet_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.CoinList(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

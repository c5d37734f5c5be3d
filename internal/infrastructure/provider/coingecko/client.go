package coingecko

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crypto-market-service/internal/domain/entities"
	"crypto-market-service/internal/infrastructure/config"
	"crypto-market-service/internal/infrastructure/logging"
	"crypto-market-service/internal/infrastructure/metrics"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTimeout = 10 * time.Second

	apiKeyHeader = "x-cg-demo-api-key"

	// Responses larger than this are treated as upstream misbehavior
	maxResponseBytes = 32 << 20
)

// Client wraps the CoinGecko REST API. Each call makes exactly one upstream
// attempt; rate-limit protection lives in the caching layer above, not in
// retries here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client with default base URL and timeout
func NewClient() *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewClientWithConfig creates a client from application configuration
func NewClientWithConfig(cfg config.CoinGeckoConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// MarketSnapshots fetches page 1 of /coins/markets ordered by 24h change
func (c *Client) MarketSnapshots(ctx context.Context, order string, perPage int) ([]entities.MarketSnapshot, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", order)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", "1")
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "24h")

	body, err := c.doGet(ctx, "/coins/markets", c.baseURL+"/coins/markets", params)
	if err != nil {
		return nil, err
	}

	var snapshots []entities.MarketSnapshot
	if err := json.Unmarshal(body, &snapshots); err != nil {
		return nil, fmt.Errorf("%w: failed to decode markets response: %v", ErrUnavailable, err)
	}
	return snapshots, nil
}

// MarketChart fetches /coins/{id}/market_chart for the given day window.
// Returns nil, nil when the upstream responds with an empty body.
func (c *Client) MarketChart(ctx context.Context, coinID string, days int) (*entities.ChartSeries, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, url.PathEscape(coinID))
	body, err := c.doGet(ctx, "/coins/{id}/market_chart", endpoint, params)
	if err != nil {
		return nil, err
	}

	if len(body) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}

	var series entities.ChartSeries
	if err := json.Unmarshal(body, &series); err != nil {
		return nil, fmt.Errorf("%w: failed to decode market chart response: %v", ErrUnavailable, err)
	}
	return &series, nil
}

// CoinList fetches the full /coins/list catalog
func (c *Client) CoinList(ctx context.Context) ([]entities.CoinInfo, error) {
	params := url.Values{}
	params.Set("include_platform", "false")

	body, err := c.doGet(ctx, "/coins/list", c.baseURL+"/coins/list", params)
	if err != nil {
		return nil, err
	}

	var items []coinListItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: failed to decode coin list response: %v", ErrUnavailable, err)
	}

	coins := make([]entities.CoinInfo, len(items))
	for i, item := range items {
		coins[i] = item.toEntity()
	}
	return coins, nil
}

// doGet performs a single GET against the upstream and triages the result.
// endpointLabel keeps metric cardinality bounded where the URL carries a
// coin id.
func (c *Client) doGet(ctx context.Context, endpointLabel, endpoint string, params url.Values) ([]byte, error) {
	fullURL := endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		logging.ErrorWithError(ctx, "Upstream request failed", err, logging.Fields{
			"endpoint":    endpointLabel,
			"duration_ms": float64(requestDuration.Nanoseconds()) / 1e6,
		})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUnavailable, err)
	}

	metrics.RecordExternalAPICall(endpointLabel, resp.StatusCode, requestDuration.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := classifyStatus(resp.StatusCode, extractErrorMessage(body))
		logging.Warn(ctx, "Upstream returned error status", logging.Fields{
			"endpoint":    endpointLabel,
			"status_code": resp.StatusCode,
			"message":     statusErr.Message,
		})
		return nil, statusErr
	}

	logging.Debug(ctx, "Upstream request completed", logging.Fields{
		"endpoint":    endpointLabel,
		"status_code": resp.StatusCode,
		"duration_ms": float64(requestDuration.Nanoseconds()) / 1e6,
	})

	return body, nil
}

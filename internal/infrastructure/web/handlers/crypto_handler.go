package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"crypto-market-service/internal/application/dto"
	"crypto-market-service/internal/application/services"
	"crypto-market-service/internal/domain/entities"
	"crypto-market-service/internal/domain/interfaces"
	"crypto-market-service/internal/infrastructure/logging"
	"crypto-market-service/internal/infrastructure/provider/coingecko"
)

// CryptoHandler maps HTTP requests onto the market data service and
// translates domain results and errors into responses.
type CryptoHandler struct {
	marketService interfaces.MarketDataService
}

// NewCryptoHandler creates a new crypto API handler
func NewCryptoHandler(marketService interfaces.MarketDataService) *CryptoHandler {
	return &CryptoHandler{
		marketService: marketService,
	}
}

// TopGainer handles GET /api/crypto/markets/top-gainer
func (h *CryptoHandler) TopGainer(w http.ResponseWriter, r *http.Request) {
	h.topMover(w, r, entities.SortDescending)
}

// TopLoser handles GET /api/crypto/markets/top-loser
func (h *CryptoHandler) TopLoser(w http.ResponseWriter, r *http.Request) {
	h.topMover(w, r, entities.SortAscending)
}

func (h *CryptoHandler) topMover(w http.ResponseWriter, r *http.Request, direction entities.SortDirection) {
	ctx := r.Context()

	snapshot, err := h.marketService.TopMover(ctx, direction)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to fetch top mover", err, logging.Fields{
			"direction": string(direction),
		})
		h.writeError(w, ctx, err, "Server error fetching top mover.")
		return
	}

	// Absent result is a valid answer: the client receives JSON null
	h.writeJSON(w, ctx, http.StatusOK, snapshot)
}

// CoinList handles GET /api/crypto/coins/list
func (h *CryptoHandler) CoinList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coins, err := h.marketService.CoinCatalog(ctx)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to fetch coin list", err, nil)
		h.writeError(w, ctx, err, "Server error fetching available coins list.")
		return
	}

	if coins == nil {
		coins = []entities.CoinInfo{}
	}
	h.writeJSON(w, ctx, http.StatusOK, coins)
}

// MarketChart handles GET /api/crypto/coins/{coinId}/market-chart?days=7
func (h *CryptoHandler) MarketChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	coinID := mux.Vars(r)["coinId"]
	if coinID == "" {
		h.writeErrorResponse(w, ctx, http.StatusBadRequest, "Coin ID parameter is required.", "")
		return
	}

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	series, err := h.marketService.MarketChart(ctx, coinID, days)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to fetch market chart", err, logging.Fields{
			logging.FieldCoinID: coinID,
			"days":              days,
		})
		h.writeError(w, ctx, err, "Failed to fetch market chart for "+coinID+".")
		return
	}

	h.writeJSON(w, ctx, http.StatusOK, series)
}

// writeError maps the domain error taxonomy to a status code and writes
// the error envelope
func (h *CryptoHandler) writeError(w http.ResponseWriter, ctx context.Context, err error, message string) {
	h.writeErrorResponse(w, ctx, statusForError(err), message, err.Error())
}

// statusForError maps domain errors to HTTP status codes: invalid input
// and client-attributable upstream failures are 400, missing resources are
// 404, everything else is 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoChartData), errors.Is(err, coingecko.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, coingecko.ErrRateLimited), errors.Is(err, coingecko.ErrAuthFailure):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *CryptoHandler) writeJSON(w http.ResponseWriter, ctx context.Context, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.ErrorWithError(ctx, "Failed to encode JSON response", err, logging.Fields{
			logging.FieldStatusCode: statusCode,
		})
	}
}

func (h *CryptoHandler) writeErrorResponse(w http.ResponseWriter, ctx context.Context, statusCode int, message, errorDetail string) {
	h.writeJSON(w, ctx, statusCode, dto.NewErrorResponse(message, errorDetail))
}

package coingecko

import (
	"encoding/json"

	"crypto-market-service/internal/domain/entities"
)

// coinListItem is one row of the upstream /coins/list response
type coinListItem struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func (c coinListItem) toEntity() entities.CoinInfo {
	return entities.NewCoinInfo(c.ID, c.Symbol, c.Name)
}

// apiErrorBody is the upstream error envelope. Both shapes appear in the
// wild, so decoding is best effort.
type apiErrorBody struct {
	Error  string `json:"error"`
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}

// extractErrorMessage pulls a human-readable message out of an upstream
// error body, returning "" when the body is not recognizable
func extractErrorMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	if parsed.Status.ErrorMessage != "" {
		return parsed.Status.ErrorMessage
	}
	return parsed.Error
}

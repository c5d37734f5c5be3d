package entities

// CoinInfo is one tradable asset's static identity metadata. No price data;
// unique by CoinID.
type CoinInfo struct {
	CoinID string `json:"coinId" db:"coin_id"`
	Symbol string `json:"symbol" db:"symbol"`
	Name   string `json:"name" db:"name"`
}

func NewCoinInfo(coinID, symbol, name string) CoinInfo {
	return CoinInfo{
		CoinID: coinID,
		Symbol: symbol,
		Name:   name,
	}
}

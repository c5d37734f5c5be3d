package entities

// SortDirection selects the 24h-change ordering for market snapshot queries
type SortDirection string

const (
	SortDescending SortDirection = "desc"
	SortAscending  SortDirection = "asc"
)

// OrderParam returns the upstream order parameter encoding this direction
func (d SortDirection) OrderParam() string {
	if d == SortAscending {
		return "price_change_percentage_24h_asc"
	}
	return "price_change_percentage_24h_desc"
}

// MarketSnapshot is one coin's current market state at fetch time
type MarketSnapshot struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
}

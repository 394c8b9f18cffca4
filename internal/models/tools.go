package models

type SearchToolInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type SearchToolOutput struct {
	Results []SearchResult `json:"results"`
	Note    string         `json:"note,omitempty"`
}

type SymbolInput struct {
	Symbol string `json:"symbol"`
}

type StockPriceOutput struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	Volume        int64   `json:"volume"`
	Currency      string  `json:"currency"`
	Note          string  `json:"note,omitempty"`
}

type CompanyInfoOutput struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Exchange    string `json:"exchange"`
	Currency    string `json:"currency"`
	QuoteType   string `json:"quote_type"`
	MarketState string `json:"market_state"`
	Note        string `json:"note,omitempty"`
}

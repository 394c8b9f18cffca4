package dataflows

import (
	"context"

	"github.com/dyike/ButterflyBrain/internal/models"
)

// PriceFetcher returns daily bars covering the last lookbackDays calendar days.
type PriceFetcher interface {
	Name() string
	FetchDailyBars(ctx context.Context, symbol string, lookbackDays int) (*models.PriceSeries, error)
}

// OptionsFetcher aggregates the nearest-expiry options chain.
type OptionsFetcher interface {
	FetchOptionVolumes(ctx context.Context, symbol string) (*models.OptionVolumes, error)
}

type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*models.StockQuote, error)
}

// Searcher runs one web or neural search query.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}

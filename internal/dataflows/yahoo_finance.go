package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/options"
	"github.com/piquette/finance-go/quote"

	"github.com/dyike/ButterflyBrain/internal/models"
)

const yahooProvider = "yahoo"

// YahooFinanceClient handles Yahoo Finance data operations
type YahooFinanceClient struct {
	symbolMap map[string]string
}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient() *YahooFinanceClient {
	return &YahooFinanceClient{
		symbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"NDX":    "^NDX",
			"DJI":    "^DJI",
		},
	}
}

func (yf *YahooFinanceClient) Name() string { return yahooProvider }

func (yf *YahooFinanceClient) yahooSymbol(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if mapped, ok := yf.symbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// FetchDailyBars gets daily bars for the trailing window ending now.
func (yf *YahooFinanceClient) FetchDailyBars(ctx context.Context, symbol string, lookbackDays int) (*models.PriceSeries, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)
	params := &chart.Params{
		Symbol:   yf.yahooSymbol(symbol),
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	series := &models.PriceSeries{Symbol: NormalizeSymbol(symbol)}
	iter := chart.Get(params)
	for iter.Next() {
		bar := iter.Bar()
		open, _ := bar.Open.Float64()
		high, _ := bar.High.Float64()
		low, _ := bar.Low.Float64()
		closePrice, _ := bar.Close.Float64()
		if open == 0 && high == 0 && low == 0 && closePrice == 0 {
			continue // null bars (holidays etc.)
		}
		series.Bars = append(series.Bars, models.PriceBar{
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, upstream(yahooProvider, "chart "+symbol, err)
	}
	return series, nil
}

// FetchOptionVolumes sums put and call volume over the nearest expiry.
func (yf *YahooFinanceClient) FetchOptionVolumes(ctx context.Context, symbol string) (*models.OptionVolumes, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iter := options.GetStraddle(yf.yahooSymbol(symbol))
	vols := &models.OptionVolumes{}
	straddles := 0
	for iter.Next() {
		s := iter.Straddle()
		straddles++
		if s.Put != nil {
			vols.PutVolume += int64(s.Put.Volume)
		}
		if s.Call != nil {
			vols.CallVolume += int64(s.Call.Volume)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, upstream(yahooProvider, "options "+symbol, err)
	}
	if straddles == 0 {
		return nil, fmt.Errorf("options chain for %s: %w", symbol, ErrNoData)
	}
	if meta := iter.Meta(); meta != nil {
		vols.Expiration = time.Unix(int64(meta.ExpirationDate), 0).UTC()
	}
	return vols, nil
}

// FetchQuote gets current quote data for a symbol
func (yf *YahooFinanceClient) FetchQuote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := quote.Get(yf.yahooSymbol(symbol))
	if err != nil {
		return nil, upstream(yahooProvider, "quote "+symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("quote for %s: %w", symbol, ErrNoData)
	}

	return &models.StockQuote{
		Symbol:        NormalizeSymbol(symbol),
		Name:          q.ShortName,
		Exchange:      q.FullExchangeName,
		Currency:      q.CurrencyID,
		Price:         q.RegularMarketPrice,
		Change:        q.RegularMarketChange,
		ChangePercent: q.RegularMarketChangePercent,
		DayHigh:       q.RegularMarketDayHigh,
		DayLow:        q.RegularMarketDayLow,
		Volume:        int64(q.RegularMarketVolume),
		MarketState:   string(q.MarketState),
		QuoteType:     string(q.QuoteType),
	}, nil
}

package dataflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"

	"github.com/dyike/ButterflyBrain/config"
	"github.com/dyike/ButterflyBrain/internal/models"
)

const longportProvider = "longport"

// longport expects SYMBOL.REGION, keyed here by market code
var longportSuffix = map[string]string{
	"HKEX": ".HK",
	"HK":   ".HK",
	"SEHK": ".HK",
	"SSE":  ".SH",
	"SH":   ".SH",
	"SZSE": ".SZ",
	"SZ":   ".SZ",
	"SGX":  ".SG",
	"SG":   ".SG",
	"US":   ".US",
}

// Asian sessions have no DST. US midnight Eastern is the same UTC date.
var longportLocation = map[string]*time.Location{
	".HK": time.FixedZone("HKT", 8*3600),
	".SH": time.FixedZone("CST", 8*3600),
	".SZ": time.FixedZone("CST", 8*3600),
	".SG": time.FixedZone("SGT", 8*3600),
}

type LongportClient struct {
	quoteCtx *quote.QuoteContext
	suffix   string
}

func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if !cfg.LongportConfigured() {
		return nil, misconfigured("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, upstream(longportProvider, "config", err)
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, upstream(longportProvider, "connect", err)
	}

	return &LongportClient{quoteCtx: quoteContext}, nil
}

// ForMarket returns a view of the client that qualifies bare tickers with
// the market's region suffix.
func (lpc *LongportClient) ForMarket(market string) *LongportClient {
	return &LongportClient{quoteCtx: lpc.quoteCtx, suffix: longportSuffix[NormalizeMarket(market)]}
}

func (lpc *LongportClient) Name() string { return longportProvider }

func (lpc *LongportClient) symbol(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if lpc.suffix != "" && !strings.Contains(symbol, ".") {
		return symbol + lpc.suffix
	}
	return symbol
}

// FetchDailyBars converts the calendar window into a trading-day count.
func (lpc *LongportClient) FetchDailyBars(ctx context.Context, symbol string, lookbackDays int) (*models.PriceSeries, error) {
	if lpc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	count := lookbackDays * 252 / 365
	if count < 1 {
		count = 1
	}
	lpSymbol := lpc.symbol(symbol)
	sticks, err := lpc.quoteCtx.Candlesticks(ctx, lpSymbol, quote.PeriodDay, int32(count), quote.AdjustTypeNo)
	if err != nil {
		return nil, upstream(longportProvider, fmt.Sprintf("candlesticks %s", lpSymbol), err)
	}

	series := &models.PriceSeries{Symbol: lpSymbol}
	for _, stick := range sticks {
		if bar, ok := candlestickBar(stick, lpc.location()); ok {
			series.Bars = append(series.Bars, bar)
		}
	}
	return series, nil
}

// candlestickBar skips sticks with any missing price.
func candlestickBar(stick *quote.Candlestick, loc *time.Location) (models.PriceBar, bool) {
	if stick == nil || stick.Open == nil || stick.High == nil || stick.Low == nil || stick.Close == nil {
		return models.PriceBar{}, false
	}
	open, _ := stick.Open.Float64()
	high, _ := stick.High.Float64()
	low, _ := stick.Low.Float64()
	closePrice, _ := stick.Close.Float64()
	return models.PriceBar{
		Date:   sessionDate(stick.Timestamp, loc),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: stick.Volume,
	}, true
}

// sessionDate maps a day-candle timestamp, stamped at local midnight, to
// that calendar date at UTC midnight.
func sessionDate(ts int64, loc *time.Location) time.Time {
	y, m, d := time.Unix(ts, 0).In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (lpc *LongportClient) location() *time.Location {
	if loc, ok := longportLocation[lpc.suffix]; ok {
		return loc
	}
	return time.UTC
}

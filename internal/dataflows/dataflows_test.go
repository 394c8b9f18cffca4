package dataflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ButterflyBrain/config"
	"github.com/dyike/ButterflyBrain/internal/models"
)

type namedFetcher string

func (n namedFetcher) Name() string { return string(n) }

func (n namedFetcher) FetchDailyBars(context.Context, string, int) (*models.PriceSeries, error) {
	return &models.PriceSeries{}, nil
}

func TestMarketRouterResolve(t *testing.T) {
	router := NewMarketRouter(namedFetcher("yahoo"))
	router.Route("hkex", namedFetcher("longport"))

	assert.Equal(t, "longport", router.Resolve(" HKEX ").Name())
	assert.Equal(t, "yahoo", router.Resolve("NASDAQ").Name())
	assert.Equal(t, "yahoo", router.Resolve("").Name())
}

func TestSymbolHelpers(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("  aapl "))
	assert.Error(t, ValidateSymbol("   "))
	assert.Error(t, ValidateSymbol("THISISWAYTOOLONG"))
	assert.NoError(t, ValidateSymbol("700.HK"))
}

func TestTruncateCountsCharacters(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}

func TestFormatDateUsesUTC(t *testing.T) {
	ts := time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("X", -5*3600))
	assert.Equal(t, "2024-03-02", FormatDate(ts))
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrap: %w", upstream("yahoo", "chart AAPL", errors.New("boom")))
	assert.True(t, IsUpstream(err))
	assert.False(t, errors.Is(err, ErrNoData))
	assert.Equal(t, "wrap: yahoo chart AAPL: boom", err.Error())

	assert.True(t, errors.Is(misconfigured("no key"), ErrMisconfigured))
}

func TestLongportSymbolSuffix(t *testing.T) {
	lpc := (&LongportClient{}).ForMarket("hkex")
	assert.Equal(t, "700.HK", lpc.symbol("700"))
	assert.Equal(t, "9988.HK", lpc.symbol("9988.HK"))
	assert.Equal(t, "AAPL", (&LongportClient{}).symbol("aapl"))
}

func TestCandlestickBarSkipsMissingPrices(t *testing.T) {
	price := decimal.NewFromFloat(12.5)
	ts := time.Date(2024, 8, 5, 0, 0, 0, 0, time.FixedZone("HKT", 8*3600)).Unix()
	loc := (&LongportClient{}).ForMarket("HKEX").location()

	for _, stick := range []*quote.Candlestick{
		nil,
		{Close: &price, High: &price, Low: &price, Timestamp: ts},
		{Open: &price, Close: &price, Low: &price, Timestamp: ts},
		{Open: &price, High: &price, Close: &price, Timestamp: ts},
	} {
		_, ok := candlestickBar(stick, loc)
		assert.False(t, ok)
	}

	bar, ok := candlestickBar(&quote.Candlestick{Open: &price, High: &price, Low: &price, Close: &price, Volume: 900, Timestamp: ts}, loc)
	require.True(t, ok)
	assert.Equal(t, 12.5, bar.Close)
	assert.Equal(t, int64(900), bar.Volume)
}

func TestSessionDateKeepsLocalCalendarDay(t *testing.T) {
	hkMidnight := time.Date(2024, 8, 5, 0, 0, 0, 0, time.FixedZone("HKT", 8*3600)).Unix()

	hk := (&LongportClient{}).ForMarket("HKEX").location()
	assert.Equal(t, "2024-08-05", FormatDate(sessionDate(hkMidnight, hk)))

	sz := (&LongportClient{}).ForMarket("SZSE").location()
	assert.Equal(t, "2024-08-05", FormatDate(sessionDate(hkMidnight, sz)))

	// plain UTC conversion lands on the previous day
	assert.Equal(t, "2024-08-04", FormatDate(time.Unix(hkMidnight, 0)))

	usMidnight := time.Date(2024, 8, 5, 4, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, "2024-08-05", FormatDate(sessionDate(usMidnight, (&LongportClient{}).ForMarket("US").location())))
}

func TestLongportClient_FetchDailyBars(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LongportAppKey = os.Getenv("LONGPORT_APP_KEY")
	cfg.LongportAppSecret = os.Getenv("LONGPORT_APP_SECRET")
	cfg.LongportAccessToken = os.Getenv("LONGPORT_ACCESS_TOKEN")

	client, err := NewLongportClient(cfg)
	if err != nil {
		t.Skipf("Skipping test due to missing Longport API credentials: %v", err)
	}

	series, err := client.ForMarket("HKEX").FetchDailyBars(context.Background(), "700", 30)
	require.NoError(t, err)
	require.NotZero(t, series.Len())
	for _, bar := range series.Bars {
		assert.GreaterOrEqual(t, bar.High, bar.Low)
	}
}


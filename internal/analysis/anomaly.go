package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/consts"
	"github.com/dyike/ButterflyBrain/internal/dataflows"
	"github.com/dyike/ButterflyBrain/internal/models"
)

// Move is one day's close-to-close percent change.
type Move struct {
	Date          time.Time
	PercentChange float64
}

func (m Move) Type() string {
	if m.PercentChange > 0 {
		return consts.EventSpike
	}
	return consts.EventCrash
}

// AnomalyScanner flags the largest single-day moves of the last two years
// and annotates each with one search snippet.
type AnomalyScanner struct {
	searcher dataflows.Searcher
	logger   arbor.ILogger
	now      func() time.Time
}

// NewAnomalyScanner accepts a nil searcher, meaning the backend is unconfigured.
func NewAnomalyScanner(searcher dataflows.Searcher, logger arbor.ILogger) *AnomalyScanner {
	return &AnomalyScanner{searcher: searcher, logger: logger, now: time.Now}
}

// Scan checks the search configuration before touching price data.
func (as *AnomalyScanner) Scan(ctx context.Context, prices dataflows.PriceFetcher, symbol string) ([]models.AnomalyEvent, error) {
	if as.searcher == nil {
		as.logger.Warn().Str("symbol", symbol).Msg("search backend not configured, skipping deep scan")
		return []models.AnomalyEvent{as.configErrorEvent()}, nil
	}

	series, err := prices.FetchDailyBars(ctx, symbol, consts.AnomalyLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", symbol, err)
	}

	moves := TopMoves(series, consts.MaxAnomalyEvents)
	events := make([]models.AnomalyEvent, 0, len(moves))
	for _, m := range moves {
		date := dataflows.FormatDate(m.Date)
		events = append(events, models.AnomalyEvent{
			Date:          date,
			Type:          m.Type(),
			Magnitude:     fmt.Sprintf("%.2f%%", m.PercentChange),
			PossibleCause: as.lookupCause(ctx, symbol, m.Type(), date),
		})
	}
	return events, nil
}

func (as *AnomalyScanner) lookupCause(ctx context.Context, symbol, moveType, date string) string {
	query := CauseQuery(symbol, moveType, date)
	results, err := as.searcher.Search(ctx, query, 1)
	if err != nil {
		as.logger.Warn().Err(err).Str("query", query).Str("provider", as.searcher.Name()).Msg("news search failed")
		return consts.NoNewsFound
	}
	if len(results) == 0 || results[0].Text == "" {
		as.logger.Info().Str("query", query).Msg("news search returned nothing")
		return consts.NoNewsFound
	}
	return dataflows.Truncate(results[0].Text, consts.MaxCauseChars)
}

func (as *AnomalyScanner) configErrorEvent() models.AnomalyEvent {
	return models.AnomalyEvent{
		Date:          dataflows.FormatDate(as.now()),
		Type:          consts.EventConfigError,
		Magnitude:     consts.NotAvailable,
		PossibleCause: consts.SearchNotEnabled,
	}
}

func CauseQuery(symbol, moveType, date string) string {
	return fmt.Sprintf("why did %s %s on %s? financial news", symbol, moveType, date)
}

// DetectMoves returns every day whose percent change is strictly beyond
// the threshold, in date order.
func DetectMoves(series *models.PriceSeries) []Move {
	var moves []Move
	for t := 1; t < series.Len(); t++ {
		prev := series.Bars[t-1].Close
		if prev == 0 {
			continue
		}
		pct := (series.Bars[t].Close - prev) / prev * 100
		if pct > consts.AnomalyThresholdPercent || pct < -consts.AnomalyThresholdPercent {
			moves = append(moves, Move{Date: series.Bars[t].Date, PercentChange: pct})
		}
	}
	return moves
}

// TopMoves ranks DetectMoves by descending magnitude and keeps at most n.
func TopMoves(series *models.PriceSeries, n int) []Move {
	moves := DetectMoves(series)
	sort.SliceStable(moves, func(i, j int) bool {
		return math.Abs(moves[i].PercentChange) > math.Abs(moves[j].PercentChange)
	})
	if len(moves) > n {
		moves = moves[:n]
	}
	return moves
}

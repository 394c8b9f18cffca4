package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/consts"
	"github.com/dyike/ButterflyBrain/internal/dataflows"
	"github.com/dyike/ButterflyBrain/internal/models"
)

// MetricsCalculator derives volatility, put/call ratio and the 52-week
// range from one year of daily bars.
type MetricsCalculator struct {
	options dataflows.OptionsFetcher
	logger  arbor.ILogger
}

func NewMetricsCalculator(options dataflows.OptionsFetcher, logger arbor.ILogger) *MetricsCalculator {
	return &MetricsCalculator{options: options, logger: logger}
}

// Calculate returns dataflows.ErrNoData for an empty series. The put/call
// ratio never fails the call.
func (mc *MetricsCalculator) Calculate(ctx context.Context, prices dataflows.PriceFetcher, symbol string) (*models.MetricsReport, error) {
	series, err := prices.FetchDailyBars(ctx, symbol, consts.MetricsLookbackDays)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", symbol, err)
	}
	return ComputeMetrics(series, mc.putCallRatio(ctx, symbol))
}

func (mc *MetricsCalculator) putCallRatio(ctx context.Context, symbol string) models.PutCallRatio {
	if mc.options == nil {
		return models.PutCallRatio{}
	}
	vols, err := mc.options.FetchOptionVolumes(ctx, symbol)
	if err != nil {
		mc.logger.Warn().Err(err).Str("symbol", symbol).Msg("options chain unavailable")
		return models.PutCallRatio{}
	}
	return PutCallRatioFrom(vols)
}

// PutCallRatioFrom is unavailable unless call volume is positive.
func PutCallRatioFrom(vols *models.OptionVolumes) models.PutCallRatio {
	if vols == nil || vols.CallVolume <= 0 || vols.PutVolume < 0 {
		return models.PutCallRatio{}
	}
	return models.PCR(round2(float64(vols.PutVolume) / float64(vols.CallVolume)))
}

// ComputeMetrics is the pure part of Calculate.
func ComputeMetrics(series *models.PriceSeries, pcr models.PutCallRatio) (*models.MetricsReport, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", seriesSymbol(series), dataflows.ErrNoData)
	}

	returns := simpleReturns(series.Closes())
	volatility := sampleStdDev(returns) * math.Sqrt(consts.TradingDaysPerYear) * 100

	high := math.Inf(-1)
	low := math.Inf(1)
	for _, b := range series.Bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	return &models.MetricsReport{
		AnnualizedVolatilityPercent: round2(volatility),
		PutCallRatioEstimate:        pcr,
		CurrentPrice:                round2(series.Bars[series.Len()-1].Close),
		Week52High:                  round2(high),
		Week52Low:                   round2(low),
	}, nil
}

// MetricsOrError folds a calculation failure into the error-kind report.
func MetricsOrError(report *models.MetricsReport, err error) *models.MetricsReport {
	if err != nil {
		return models.MetricsError(err)
	}
	if report == nil {
		return models.MetricsError(errors.New("metrics unavailable"))
	}
	return report
}

func seriesSymbol(series *models.PriceSeries) string {
	if series == nil || series.Symbol == "" {
		return "price series"
	}
	return series.Symbol
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/config"
	"github.com/dyike/ButterflyBrain/internal/agents"
	"github.com/dyike/ButterflyBrain/internal/analysis"
	"github.com/dyike/ButterflyBrain/internal/dataflows"
	"github.com/dyike/ButterflyBrain/internal/models"
	"github.com/dyike/ButterflyBrain/internal/tools"
)

// Responder answers one scoped chat turn.
type Responder interface {
	Respond(ctx context.Context, turn models.ChatTurn) (string, error)
}

// Deps are the collaborators of an Analyst. Nil Searcher means the search
// backend is not configured.
type Deps struct {
	Config    *config.Config
	Router    *dataflows.MarketRouter
	Options   dataflows.OptionsFetcher
	Searcher  dataflows.Searcher
	Responder Responder
	Logger    arbor.ILogger
}

// Analyst runs the deep analysis pipeline and the chat responder. It holds
// only stateless clients built once at startup.
type Analyst struct {
	cfg       *config.Config
	router    *dataflows.MarketRouter
	metrics   *analysis.MetricsCalculator
	scanner   *analysis.AnomalyScanner
	responder Responder
	logger    arbor.ILogger
}

// NewAnalyst wires the production providers from configuration.
func NewAnalyst(cfg *config.Config, logger arbor.ILogger) *Analyst {
	yahoo := dataflows.NewYahooFinanceClient()
	router := dataflows.NewMarketRouter(yahoo)

	if cfg.LongportConfigured() {
		lp, err := dataflows.NewLongportClient(cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("longport unavailable, all markets use yahoo")
		} else {
			for _, market := range cfg.LongportMarkets {
				router.Route(market, lp.ForMarket(market))
			}
			logger.Info().Strs("markets", cfg.LongportMarkets).Msg("longport routing enabled")
		}
	}

	searcher := dataflows.NewSearcher(cfg)
	if searcher == nil {
		logger.Warn().Str("provider", cfg.SearchProvider).Msg("search backend not configured")
	}

	agentTools := []tool.BaseTool{
		tools.NewAgentSearchTool(searcher, logger),
		tools.NewStockPriceTool(yahoo, logger),
		tools.NewCompanyInfoTool(yahoo, logger),
	}

	return NewAnalystWith(Deps{
		Config:    cfg,
		Router:    router,
		Options:   yahoo,
		Searcher:  searcher,
		Responder: agents.NewScopedAnalyst(cfg, agentTools, logger),
		Logger:    logger,
	})
}

func NewAnalystWith(d Deps) *Analyst {
	return &Analyst{
		cfg:       d.Config,
		router:    d.Router,
		metrics:   analysis.NewMetricsCalculator(d.Options, d.Logger),
		scanner:   analysis.NewAnomalyScanner(d.Searcher, d.Logger),
		responder: d.Responder,
		logger:    d.Logger,
	}
}

// LLMConfigured backs the liveness probe.
func (a *Analyst) LLMConfigured() bool {
	return a.cfg.LLMConfigured()
}

// DeepAnalysis computes metrics, scans for anomalies and assembles the
// report. Metric failures are folded into the error-kind result; an
// anomaly scan failure fails the request.
// Ticker and market reach the report and the news queries as given; only
// the symbol check and provider lookup see trimmed values.
func (a *Analyst) DeepAnalysis(ctx context.Context, ticker, market string) (*models.DeepAnalysis, error) {
	if err := dataflows.ValidateSymbol(ticker); err != nil {
		return nil, err
	}

	start := time.Now()
	prices := a.router.Resolve(market)
	a.logger.Info().Str("ticker", ticker).Str("market", market).Str("provider", prices.Name()).Msg("deep analysis started")

	metrics := analysis.MetricsOrError(a.metrics.Calculate(ctx, prices, ticker))
	if metrics.IsError() {
		a.logger.Warn().Str("ticker", ticker).Str("error", metrics.Error).Msg("metrics unavailable")
	}

	events, err := a.scanner.Scan(ctx, prices, ticker)
	if err != nil {
		a.logger.Error().Err(err).Str("ticker", ticker).Msg("anomaly scan failed")
		return nil, fmt.Errorf("anomaly scan: %w", err)
	}

	report := analysis.BuildReport(ticker, market, metrics, events)
	a.logger.Info().
		Str("ticker", ticker).
		Int("events", len(events)).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("deep analysis finished")

	return &models.DeepAnalysis{
		Ticker:        ticker,
		Market:        market,
		ReportSummary: report,
		Metrics:       metrics,
		Events:        events,
	}, nil
}

// Chat forwards one turn to the scoped responder.
func (a *Analyst) Chat(ctx context.Context, turn models.ChatTurn) (string, error) {
	if a.responder == nil {
		return "", fmt.Errorf("chat responder: %w", dataflows.ErrMisconfigured)
	}
	return a.responder.Respond(ctx, turn)
}

package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/consts"
	"github.com/dyike/ButterflyBrain/internal/dataflows"
	"github.com/dyike/ButterflyBrain/internal/models"
)

var symbolParams = map[string]*schema.ParameterInfo{
	"symbol": {
		Type:     "string",
		Desc:     "The stock ticker symbol, e.g. AAPL",
		Required: true,
	},
}

// NewStockPriceTool creates the current price lookup tool
func NewStockPriceTool(quotes dataflows.QuoteFetcher, logger arbor.ILogger) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        consts.ToolStockPrice,
			Desc:        "Get the latest trading price, daily change and day range for a stock",
			ParamsOneOf: schema.NewParamsOneOfByParams(symbolParams),
		},
		func(ctx context.Context, input models.SymbolInput) (*models.StockPriceOutput, error) {
			q, err := fetchQuote(ctx, quotes, input.Symbol)
			if err != nil {
				logger.Warn().Err(err).Str("tool", consts.ToolStockPrice).Msg("quote lookup failed")
				return &models.StockPriceOutput{Symbol: input.Symbol, Note: quoteFailureNote(err)}, nil
			}
			return &models.StockPriceOutput{
				Symbol:        q.Symbol,
				Price:         q.Price,
				Change:        q.Change,
				ChangePercent: q.ChangePercent,
				DayHigh:       q.DayHigh,
				DayLow:        q.DayLow,
				Volume:        q.Volume,
				Currency:      q.Currency,
			}, nil
		},
	)
}

// NewCompanyInfoTool creates the company profile lookup tool
func NewCompanyInfoTool(quotes dataflows.QuoteFetcher, logger arbor.ILogger) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        consts.ToolCompanyInfo,
			Desc:        "Get the company name, listing exchange and trading currency for a stock",
			ParamsOneOf: schema.NewParamsOneOfByParams(symbolParams),
		},
		func(ctx context.Context, input models.SymbolInput) (*models.CompanyInfoOutput, error) {
			q, err := fetchQuote(ctx, quotes, input.Symbol)
			if err != nil {
				logger.Warn().Err(err).Str("tool", consts.ToolCompanyInfo).Msg("quote lookup failed")
				return &models.CompanyInfoOutput{Symbol: input.Symbol, Note: quoteFailureNote(err)}, nil
			}
			return &models.CompanyInfoOutput{
				Symbol:      q.Symbol,
				Name:        q.Name,
				Exchange:    q.Exchange,
				Currency:    q.Currency,
				QuoteType:   q.QuoteType,
				MarketState: q.MarketState,
			}, nil
		},
	)
}

// Tool errors end the agent run, so failures reach the model as a note.
func quoteFailureNote(err error) string {
	return "quote unavailable: " + err.Error()
}

func fetchQuote(ctx context.Context, quotes dataflows.QuoteFetcher, symbol string) (*models.StockQuote, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol parameter is required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote provider: %w", dataflows.ErrMisconfigured)
	}
	return quotes.FetchQuote(ctx, symbol)
}

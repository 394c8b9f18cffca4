package tools

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/consts"
	"github.com/dyike/ButterflyBrain/internal/dataflows"
	"github.com/dyike/ButterflyBrain/internal/models"
)

const (
	defaultSearchResults = 5
	maxSearchResults     = 5
)

// NewAgentSearchTool exposes live news search to the chat agent. A nil
// searcher yields an empty result with a note instead of an error, so the
// agent can still answer from its instructions.
func NewAgentSearchTool(searcher dataflows.Searcher, logger arbor.ILogger) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: consts.ToolAgentSearch,
			Desc: "Search the web for live news and data about the stock being discussed",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Search query",
					Required: true,
				},
				"max_results": {
					Type:     "integer",
					Desc:     "Maximum number of results to return (1-5, default: 5)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input models.SearchToolInput) (*models.SearchToolOutput, error) {
			if strings.TrimSpace(input.Query) == "" {
				return &models.SearchToolOutput{Note: "query parameter is required"}, nil
			}
			if searcher == nil {
				return &models.SearchToolOutput{Note: consts.SearchNotEnabled}, nil
			}

			n := input.MaxResults
			if n <= 0 {
				n = defaultSearchResults
			}
			if n > maxSearchResults {
				n = maxSearchResults
			}

			results, err := searcher.Search(ctx, input.Query, n)
			if err != nil {
				logger.Warn().Err(err).Str("query", input.Query).Str("provider", searcher.Name()).Msg("agent search failed")
				return &models.SearchToolOutput{Note: "search failed: " + err.Error()}, nil
			}
			if len(results) > n {
				results = results[:n]
			}
			for i := range results {
				results[i].Text = dataflows.Truncate(results[i].Text, 1000)
			}

			logger.Debug().Int("results", len(results)).Str("query", input.Query).Msg("agent search")
			return &models.SearchToolOutput{Results: results}, nil
		},
	)
}

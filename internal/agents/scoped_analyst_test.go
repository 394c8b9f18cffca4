package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ButterflyBrain/config"
	"github.com/dyike/ButterflyBrain/internal/dataflows"
	"github.com/dyike/ButterflyBrain/internal/logging"
	"github.com/dyike/ButterflyBrain/internal/models"
	"github.com/dyike/ButterflyBrain/internal/tools"
)

type fakeChatModel struct {
	reply string
	err   error
	seen  [][]*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.seen = append(f.seen, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (f *fakeChatModel) WithTools([]*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return f, nil
}

func factoryFor(m *fakeChatModel, calls *int) ModelFactory {
	return func(context.Context, *config.Config) (model.ToolCallingChatModel, error) {
		*calls++
		return m, nil
	}
}

func testTurn() models.ChatTurn {
	return models.ChatTurn{
		Ticker:   "AAPL",
		Market:   "NASDAQ",
		Question: "Why is volatility high",
		Context:  "--- DEEP ANALYSIS REPORT FOR AAPL (NASDAQ) ---\n{not a placeholder}",
	}
}

func TestBuildMessages(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msgs, err := BuildMessages(context.Background(), testTurn(), now)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "AAPL listed on NASDAQ")
	assert.Contains(t, msgs[0].Content, "{not a placeholder}")
	assert.Contains(t, msgs[0].Content, "2024-05-01")
	assert.True(t, strings.Contains(msgs[0].Content, "agent_search_tool"))

	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "Why is volatility high. (Recall the Deep Analysis Report provided in instructions)", msgs[1].Content)
}

func TestRespondMissingKeyMakesNoCall(t *testing.T) {
	calls := 0
	cfg := config.DefaultConfig()
	sa := NewScopedAnalyst(cfg, nil, logging.Discard()).WithModelFactory(factoryFor(&fakeChatModel{}, &calls))

	_, err := sa.Respond(context.Background(), testTurn())
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataflows.ErrMisconfigured))
	assert.Equal(t, 0, calls)
}

func TestRespondReturnsReplyUnmodified(t *testing.T) {
	calls := 0
	cfg := config.DefaultConfig()
	cfg.GroqAPIKey = "gsk-test"
	fake := &fakeChatModel{reply: "  Apple's volatility rose after earnings.\n"}
	sa := NewScopedAnalyst(cfg, nil, logging.Discard()).WithModelFactory(factoryFor(fake, &calls))

	reply, err := sa.Respond(context.Background(), testTurn())
	require.NoError(t, err)
	assert.Equal(t, "  Apple's volatility rose after earnings.\n", reply)
	assert.Equal(t, 1, calls)
	require.NotEmpty(t, fake.seen)
	assert.Equal(t, schema.System, fake.seen[0][0].Role)
}

func TestRespondBackendFailure(t *testing.T) {
	calls := 0
	cfg := config.DefaultConfig()
	cfg.GroqAPIKey = "gsk-test"
	sa := NewScopedAnalyst(cfg, nil, logging.Discard()).
		WithModelFactory(factoryFor(&fakeChatModel{err: errors.New("401 invalid api key")}, &calls))

	_, err := sa.Respond(context.Background(), testTurn())
	require.Error(t, err)
	assert.True(t, dataflows.IsUpstream(err))
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestNewChatModelRequiresKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LLMProvider = config.ProviderDeepSeek
	_, err := NewChatModel(context.Background(), cfg)
	assert.True(t, errors.Is(err, dataflows.ErrMisconfigured))
}

func TestNewChatModelBuildsClients(t *testing.T) {
	for _, provider := range []string{config.ProviderGroq, config.ProviderOpenAI, config.ProviderDeepSeek} {
		cfg := config.DefaultConfig()
		cfg.LLMProvider = provider
		cfg.GroqAPIKey, cfg.OpenAIAPIKey, cfg.DeepSeekAPIKey = "k", "k", "k"
		m, err := NewChatModel(context.Background(), cfg)
		require.NoError(t, err, provider)
		assert.NotNil(t, m, provider)
	}
}

func TestLoadPrompt(t *testing.T) {
	tpl, err := LoadPrompt(promptName)
	require.NoError(t, err)
	assert.Contains(t, tpl, "{analysis_context}")

	_, err = LoadPrompt("missing")
	assert.Error(t, err)
}

func TestLoggerCallbackBuilds(t *testing.T) {
	assert.NotNil(t, NewLoggerCallback(logging.Discard(), "AAPL"))
}

type failingQuotes struct{}

func (failingQuotes) FetchQuote(context.Context, string) (*models.StockQuote, error) {
	return nil, errors.New("yahoo 429 too many requests")
}

// toolCallingModel asks for a price once, then answers with whatever the
// tool returned.
type toolCallingModel struct {
	calls     int
	toolReply string
}

func (m *toolCallingModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.calls == 1 {
		return schema.AssistantMessage("", []schema.ToolCall{{
			ID:       "1",
			Type:     "function",
			Function: schema.FunctionCall{Name: "get_stock_price", Arguments: `{"symbol":"AAPL"}`},
		}}), nil
	}
	last := input[len(input)-1]
	if last.Role == schema.Tool {
		m.toolReply = last.Content
	}
	return schema.AssistantMessage("Live price is unavailable right now.", nil), nil
}

func (m *toolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *toolCallingModel) WithTools([]*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func TestRespondSurvivesFailingQuoteTool(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GroqAPIKey = "gsk-test"
	m := &toolCallingModel{}
	agentTools := []tool.BaseTool{tools.NewStockPriceTool(failingQuotes{}, logging.Discard())}
	sa := NewScopedAnalyst(cfg, agentTools, logging.Discard()).
		WithModelFactory(func(context.Context, *config.Config) (model.ToolCallingChatModel, error) { return m, nil })

	reply, err := sa.Respond(context.Background(), testTurn())
	require.NoError(t, err)
	assert.Equal(t, "Live price is unavailable right now.", reply)
	assert.Equal(t, 2, m.calls)
	assert.Contains(t, m.toolReply, "yahoo 429")
}

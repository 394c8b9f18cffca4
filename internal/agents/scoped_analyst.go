package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	flowagent "github.com/cloudwego/eino/flow/agent"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/config"
	"github.com/dyike/ButterflyBrain/internal/dataflows"
	"github.com/dyike/ButterflyBrain/internal/models"
)

const promptName = "scoped_analyst"

const recallSuffix = ". (Recall the Deep Analysis Report provided in instructions)"

// ScopedAnalyst answers one chat turn, restricted to a single ticker. It
// keeps no session state: the caller replays the analysis context.
type ScopedAnalyst struct {
	cfg      *config.Config
	tools    []tool.BaseTool
	newModel ModelFactory
	logger   arbor.ILogger
}

func NewScopedAnalyst(cfg *config.Config, tools []tool.BaseTool, logger arbor.ILogger) *ScopedAnalyst {
	return &ScopedAnalyst{
		cfg:      cfg,
		tools:    tools,
		newModel: NewChatModel,
		logger:   logger,
	}
}

// WithModelFactory swaps the model constructor, mainly for tests.
func (sa *ScopedAnalyst) WithModelFactory(f ModelFactory) *ScopedAnalyst {
	sa.newModel = f
	return sa
}

// Respond returns the model's final reply text unmodified. A missing
// credential is rejected before any network call.
func (sa *ScopedAnalyst) Respond(ctx context.Context, turn models.ChatTurn) (string, error) {
	if !sa.cfg.LLMConfigured() {
		return "", fmt.Errorf("%s api key not set: %w", sa.cfg.LLMProvider, dataflows.ErrMisconfigured)
	}

	messages, err := BuildMessages(ctx, turn, time.Now())
	if err != nil {
		return "", err
	}

	chatModel, err := sa.newModel(ctx, sa.cfg)
	if err != nil {
		return "", err
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		MaxStep:          sa.cfg.MaxStep,
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: sa.tools,
		},
		StreamToolCallChecker: ToolCallChecker,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent: %w", err)
	}

	start := time.Now()
	reply, err := agent.Generate(ctx, messages,
		flowagent.WithComposeOptions(compose.WithCallbacks(NewLoggerCallback(sa.logger, turn.Ticker))))
	if err != nil {
		sa.logger.Error().Err(err).Str("ticker", turn.Ticker).Str("provider", sa.cfg.LLMProvider).Msg("chat completion failed")
		return "", &dataflows.UpstreamError{Provider: sa.cfg.LLMProvider, Op: "chat", Err: err}
	}

	sa.logger.Info().
		Str("ticker", turn.Ticker).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Int("reply_chars", len(reply.Content)).
		Msg("chat turn answered")
	return reply.Content, nil
}

// BuildMessages renders fresh instructions for the turn followed by the
// user question. Context text is substituted as a value, never parsed as
// a template.
func BuildMessages(ctx context.Context, turn models.ChatTurn, now time.Time) ([]*schema.Message, error) {
	systemTpl, err := LoadPrompt(promptName)
	if err != nil {
		return nil, err
	}
	promptTemp := prompt.FromMessages(schema.FString,
		schema.SystemMessage(systemTpl),
		schema.MessagesPlaceholder("user_input", false),
	)
	return promptTemp.Format(ctx, map[string]any{
		"ticker":           turn.Ticker,
		"market":           turn.Market,
		"current_date":     now.Format("2006-01-02"),
		"analysis_context": turn.Context,
		"user_input":       []*schema.Message{schema.UserMessage(turn.Question + recallSuffix)},
	})
}

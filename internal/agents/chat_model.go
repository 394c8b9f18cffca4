package agents

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dyike/ButterflyBrain/config"
	"github.com/dyike/ButterflyBrain/internal/dataflows"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// ModelFactory builds the tool-calling chat model for one request.
type ModelFactory func(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error)

// NewChatModel creates the chat model for the configured provider. Groq
// and OpenAI share the OpenAI-compatible client.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	apiKey := cfg.LLMAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%s api key not set: %w", cfg.LLMProvider, dataflows.ErrMisconfigured)
	}

	switch cfg.LLMProvider {
	case config.ProviderDeepSeek:
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    apiKey,
			Model:     cfg.LLMModel,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create DeepSeek model: %w", err)
		}
		return chatModel, nil
	default:
		baseURL := cfg.BackendURL
		if baseURL == "" && cfg.LLMProvider == config.ProviderGroq {
			baseURL = groqBaseURL
		}
		maxTokens := cfg.MaxTokens
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   baseURL,
			APIKey:    apiKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s model: %w", cfg.LLMProvider, err)
		}
		return chatModel, nil
	}
}

// ToolCallChecker reports whether a streamed reply carries tool calls.
func ToolCallChecker(ctx context.Context, sr *schema.StreamReader[*schema.Message]) (bool, error) {
	defer sr.Close()
	for {
		msg, err := sr.Recv()
		if err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}
		if len(msg.ToolCalls) > 0 {
			return true, nil
		}
	}
}

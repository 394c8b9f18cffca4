package agents

import (
	"context"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/ternarybob/arbor"
)

// NewLoggerCallback logs each model and tool step of the agent loop.
func NewLoggerCallback(logger arbor.ILogger, ticker string) callbacks.Handler {
	return callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
			if info != nil && info.Component == components.ComponentOfTool {
				logger.Info().Str("ticker", ticker).Str("tool", info.Name).Msg("agent tool call")
			} else if info != nil {
				logger.Debug().Str("ticker", ticker).Str("component", string(info.Component)).Str("name", info.Name).Msg("agent step")
			}
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			name := ""
			if info != nil {
				name = info.Name
			}
			logger.Warn().Err(err).Str("ticker", ticker).Str("name", name).Msg("agent step failed")
			return ctx
		}).
		Build()
}

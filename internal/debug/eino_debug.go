package debug

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/devops"
	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/config"
)

// EinoDebugger starts the eino visual debug server when enabled.
type EinoDebugger struct {
	config *config.Config
	logger arbor.ILogger
}

func NewEinoDebugger(cfg *config.Config, logger arbor.ILogger) *EinoDebugger {
	return &EinoDebugger{config: cfg, logger: logger}
}

// Initialize is a no-op unless eino debugging is enabled.
func (d *EinoDebugger) Initialize(ctx context.Context) error {
	if !d.IsEnabled() {
		return nil
	}

	d.logger.Info().Int("port", d.config.EinoDebugPort).Msg("initializing eino visual debug plugin")
	if err := devops.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize Eino debug plugin: %w", err)
	}
	d.logger.Info().Str("url", d.GetDebugURL()).Msg("eino debug server ready")
	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config.EinoDebugEnabled
}

func (d *EinoDebugger) GetDebugURL() string {
	if !d.config.EinoDebugEnabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.config.EinoDebugPort)
}

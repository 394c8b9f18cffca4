package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/ButterflyBrain/config"
	"github.com/dyike/ButterflyBrain/consts"
	"github.com/dyike/ButterflyBrain/internal/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1).
			MarginBottom(1)

	reportsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(90)

	replyStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 1).
			Width(90)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(22)

	inProgressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	spikeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	crashStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// RenderAnalysis shows the metrics table, the event list and the raw
// report text that chat turns replay.
func RenderAnalysis(result *models.DeepAnalysis) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("🦋 %s (%s)", result.Ticker, result.Market)))
	b.WriteString("\n")

	m := result.Metrics
	if m.IsError() {
		msg := "metrics unavailable"
		if m != nil {
			msg = m.Error
		}
		b.WriteString(errorStyle.Render("Metrics: " + msg))
		b.WriteString("\n")
	} else {
		b.WriteString(row("Volatility (ann.)", fmt.Sprintf("%.2f%%", m.AnnualizedVolatilityPercent)))
		b.WriteString(row("Put/Call ratio", m.PutCallRatioEstimate.String()))
		b.WriteString(row("52-week range", fmt.Sprintf("%.2f - %.2f", m.Week52Low, m.Week52High)))
		b.WriteString(row("Current price", fmt.Sprintf("%.2f", m.CurrentPrice)))
	}

	b.WriteString("\n")
	for _, e := range result.Events {
		b.WriteString(eventStyle(e.Type).Render(fmt.Sprintf("%s %-6s %s", e.Date, e.Type, e.Magnitude)))
		b.WriteString("\n  ")
		b.WriteString(e.PossibleCause)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(reportsStyle.Render(result.ReportSummary))
	return b.String()
}

func RenderReply(reply string) string {
	return replyStyle.Render(reply)
}

// RenderConfig never prints secrets, only whether they are set.
func RenderConfig(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📋 Butterfly Brain configuration"))
	b.WriteString("\n")
	b.WriteString(row("Listen address", cfg.Addr()))
	b.WriteString(row("CORS origins", strings.Join(cfg.CORSOrigins, ", ")))
	b.WriteString(row("LLM provider", cfg.LLMProvider))
	b.WriteString(row("LLM model", cfg.LLMModel))
	if cfg.BackendURL != "" {
		b.WriteString(row("Backend URL", cfg.BackendURL))
	}
	b.WriteString(row("LLM API key", configured(cfg.LLMConfigured())))
	b.WriteString(row("Search provider", cfg.SearchProvider))
	b.WriteString(row("Search backend", configured(cfg.SearchConfigured())))
	b.WriteString(row("Longport", configured(cfg.LongportConfigured())))
	if cfg.LongportConfigured() {
		b.WriteString(row("Longport markets", strings.Join(cfg.LongportMarkets, ", ")))
	}
	b.WriteString(row("HTTP timeout", cfg.HTTPTimeout.String()))
	b.WriteString(row("Log level", cfg.LogLevel))
	b.WriteString(row("Eino debug", fmt.Sprintf("%t", cfg.EinoDebugEnabled)))
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}

func configured(ok bool) string {
	if ok {
		return completedStyle.Render("✅ Configured")
	}
	return warnStyle.Render("❌ Not configured")
}

func eventStyle(eventType string) lipgloss.Style {
	switch eventType {
	case consts.EventSpike:
		return spikeStyle
	case consts.EventCrash:
		return crashStyle
	default:
		return warnStyle
	}
}

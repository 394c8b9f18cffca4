package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/dyike/ButterflyBrain/internal/models"
	"github.com/dyike/ButterflyBrain/internal/service"
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.^-]+$`)

// ValidateTicker accepts letters, digits, dots, carets and hyphens.
func ValidateTicker(val interface{}) error {
	str, _ := val.(string)
	str = strings.TrimSpace(strings.ToUpper(str))
	if len(str) == 0 {
		return fmt.Errorf("ticker symbol cannot be empty")
	}
	if len(str) > 12 {
		return fmt.Errorf("ticker symbol too long (max 12 characters)")
	}
	if !tickerPattern.MatchString(str) {
		return fmt.Errorf("invalid ticker format (use letters, numbers, dots, and hyphens only)")
	}
	return nil
}

// PromptForTicker prompts the user to enter a stock ticker symbol
func PromptForTicker() (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, 0700, NVDA):",
		Help:    "The chat will be restricted to this ticker",
	}
	if err := survey.AskOne(prompt, &ticker, survey.WithValidator(ValidateTicker)); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ToUpper(ticker)), nil
}

// PromptForMarket prompts for the listing market
func PromptForMarket() (string, error) {
	var market string
	prompt := &survey.Input{
		Message: "Enter the market or exchange:",
		Help:    "Used in the report header and to pick the price provider (e.g. HKEX routes to Longport when configured)",
		Default: "US",
	}
	if err := survey.AskOne(prompt, &market, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ToUpper(market)), nil
}

// PromptForQuestion returns an empty string when the user wants to stop.
func PromptForQuestion(ticker string) (string, error) {
	var question string
	prompt := &survey.Input{
		Message: fmt.Sprintf("Ask about %s (empty line to quit):", ticker),
	}
	if err := survey.AskOne(prompt, &question); err != nil {
		return "", err
	}
	return strings.TrimSpace(question), nil
}

// runChatSession keeps the report on the client side and replays it as
// context on every turn, the same way an HTTP client does.
func runChatSession(ctx context.Context, out io.Writer, analyst *service.Analyst) error {
	ticker, err := PromptForTicker()
	if err != nil {
		return ignoreInterrupt(err)
	}
	market, err := PromptForMarket()
	if err != nil {
		return ignoreInterrupt(err)
	}

	fmt.Fprintln(out, inProgressStyle.Render(fmt.Sprintf("Running deep analysis for %s (%s)...", ticker, market)))
	result, err := analyst.DeepAnalysis(ctx, ticker, market)
	if err != nil {
		return fmt.Errorf("deep analysis: %w", err)
	}
	fmt.Fprintln(out, RenderAnalysis(result))

	for {
		question, err := PromptForQuestion(ticker)
		if err != nil {
			return ignoreInterrupt(err)
		}
		if question == "" {
			return nil
		}

		reply, err := analyst.Chat(ctx, models.ChatTurn{
			Ticker:   ticker,
			Market:   market,
			Question: question,
			Context:  result.ReportSummary,
		})
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("Chat failed: "+err.Error()))
			continue
		}
		fmt.Fprintln(out, RenderReply(reply))
	}
}

func ignoreInterrupt(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return nil
	}
	return err
}

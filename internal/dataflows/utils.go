package dataflows

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ValidateSymbol checks if a stock symbol is valid format
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 12 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// NormalizeMarket upper-cases the market code used for provider routing.
func NormalizeMarket(market string) string {
	return strings.TrimSpace(strings.ToUpper(market))
}

// FormatDate renders a bar date as a calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

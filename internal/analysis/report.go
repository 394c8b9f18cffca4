package analysis

import (
	"fmt"
	"strings"

	"github.com/dyike/ButterflyBrain/consts"
	"github.com/dyike/ButterflyBrain/internal/models"
)

// BuildReport renders the deep analysis text block that clients replay as
// chat context.
func BuildReport(ticker, market string, metrics *models.MetricsReport, events []models.AnomalyEvent) string {
	var b strings.Builder

	fmt.Fprintf(&b, "--- DEEP ANALYSIS REPORT FOR %s (%s) ---\n", ticker, market)
	b.WriteString("[EXPERT METRICS]\n")
	if metrics.IsError() {
		fmt.Fprintf(&b, "- Annualized Volatility: %s\n", consts.NotAvailable)
		fmt.Fprintf(&b, "- Est. Put/Call Ratio: %s\n", consts.NotAvailable)
		fmt.Fprintf(&b, "- 52-Week Range: %s - %s\n", consts.NotAvailable, consts.NotAvailable)
		fmt.Fprintf(&b, "- Current Price: %s\n", consts.NotAvailable)
		if metrics != nil {
			fmt.Fprintf(&b, "- Metrics Error: %s\n", metrics.Error)
		}
	} else {
		fmt.Fprintf(&b, "- Annualized Volatility: %.2f%%\n", metrics.AnnualizedVolatilityPercent)
		fmt.Fprintf(&b, "- Est. Put/Call Ratio: %s\n", metrics.PutCallRatioEstimate)
		fmt.Fprintf(&b, "- 52-Week Range: %.2f - %.2f\n", metrics.Week52Low, metrics.Week52High)
		fmt.Fprintf(&b, "- Current Price: %.2f\n", metrics.CurrentPrice)
	}

	b.WriteString("\n[HISTORICAL TIMELINE & CAUSALITY]\n")
	if len(events) == 0 {
		fmt.Fprintf(&b, "- No single-day moves beyond +/-%.0f%% in the scanned window.\n", consts.AnomalyThresholdPercent)
	}
	for _, e := range events {
		fmt.Fprintf(&b, "- %s: %s of %s. Cause: %s\n", e.Date, e.Type, e.Magnitude, e.PossibleCause)
	}
	return b.String()
}

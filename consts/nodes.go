package consts

// Tool names exposed to the scoped analyst agent
const (
	ToolAgentSearch = "agent_search_tool"
	ToolStockPrice  = "get_stock_price"
	ToolCompanyInfo = "get_company_info"
)

// Lookback windows, in calendar days, for the two price-history consumers
const (
	MetricsLookbackDays = 365
	AnomalyLookbackDays = 730
)

const (
	TradingDaysPerYear = 252

	// AnomalyThresholdPercent is exclusive on both sides.
	AnomalyThresholdPercent = 5.0
	MaxAnomalyEvents        = 3
	MaxCauseChars           = 300
)

package consts

const (
	EventSpike       = "SPIKE"
	EventCrash       = "CRASH"
	EventConfigError = "CONFIG_ERROR"
)

const (
	PCRUnavailable   = "Data Unavailable (Requires Paid API)"
	NoNewsFound      = "No specific news found."
	SearchNotEnabled = "Search backend not configured: set EXA_API_KEY or SEARCH_PROVIDER=duckduckgo."
	NotAvailable     = "N/A"
)

const (
	StatusActive  = "Butterfly Brain is Active"
	StatusSuccess = "success"
)

package dataflows

import (
	"github.com/dyike/ButterflyBrain/config"
)

// NewSearcher returns the configured backend, or nil when the keyed
// backend has no credential.
func NewSearcher(cfg *config.Config) Searcher {
	switch cfg.SearchProvider {
	case config.SearchDuckDuckGo:
		return NewDuckDuckGoClient("", cfg.HTTPTimeout)
	default:
		if cfg.ExaAPIKey == "" {
			return nil
		}
		return NewExaClient(cfg.ExaBaseURL, cfg.ExaAPIKey, cfg.HTTPTimeout)
	}
}

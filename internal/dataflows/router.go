package dataflows

// MarketRouter picks the price provider for a request's market. The market
// never enters any calculation.
type MarketRouter struct {
	fallback PriceFetcher
	routes   map[string]PriceFetcher
}

func NewMarketRouter(fallback PriceFetcher) *MarketRouter {
	return &MarketRouter{fallback: fallback, routes: make(map[string]PriceFetcher)}
}

func (r *MarketRouter) Route(market string, f PriceFetcher) {
	r.routes[NormalizeMarket(market)] = f
}

func (r *MarketRouter) Resolve(market string) PriceFetcher {
	if f, ok := r.routes[NormalizeMarket(market)]; ok {
		return f
	}
	return r.fallback
}

package advisor

// FundamentalSet is a snapshot of company fundamentals for one security.
// Fields are nullable: a nil field is an unavailable datum and the scorers
// exclude the dimension it feeds.
type FundamentalSet struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name,omitempty"`
	Sector        string   `json:"sector,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	ForwardPE     *float64 `json:"forward_pe,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	// Growth rates are fractions: 0.15 means 15% year over year.
	EarningsGrowth *float64 `json:"earnings_growth,omitempty"`
	RevenueGrowth  *float64 `json:"revenue_growth,omitempty"`
	ProfitMargin   *float64 `json:"profit_margin,omitempty"`
	ReturnOnEquity *float64 `json:"return_on_equity,omitempty"`
	// DebtToEquity is a ratio (1.5 means debt is 150% of equity).
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
}

package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/advisor"
)

// quoteSummaryModules are the quoteSummary modules holding the fundamentals
// the scorers consume.
const quoteSummaryModules = "summaryDetail,financialData,defaultKeyStatistics,assetProfile,price"

// Fundamentals returns the company fundamentals of a symbol. The payload is
// deeply nested and loosely typed, so fields are extracted one by one with
// jsonpath; a missing field leaves its slot nil rather than failing the call.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*advisor.FundamentalSet, error) {
	addr := fmt.Sprintf("%s/%s?modules=%s", quoteSummaryURL, url.PathEscape(symbol), quoteSummaryModules)
	var jobj any
	if err := jwget(ctx, c.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("fetching fundamentals for %s: %w", symbol, err)
	}
	if _, err := jsonpath.Get("$.quoteSummary.result[0]", jobj); err != nil {
		return nil, fmt.Errorf("fundamentals %s: empty result: %w", symbol, advisor.ErrNotFound)
	}

	f := &advisor.FundamentalSet{Symbol: symbol}
	f.Name = getString(jobj, "$.quoteSummary.result[0].price.longName")
	f.Sector = getString(jobj, "$.quoteSummary.result[0].assetProfile.sector")
	f.MarketCap = getFloat(jobj, "$.quoteSummary.result[0].summaryDetail.marketCap.raw")
	f.PERatio = getFloat(jobj, "$.quoteSummary.result[0].summaryDetail.trailingPE.raw")
	f.ForwardPE = getFloat(jobj, "$.quoteSummary.result[0].summaryDetail.forwardPE.raw")
	f.DividendYield = getFloat(jobj, "$.quoteSummary.result[0].summaryDetail.dividendYield.raw")
	f.EarningsGrowth = getFloat(jobj, "$.quoteSummary.result[0].financialData.earningsGrowth.raw")
	f.RevenueGrowth = getFloat(jobj, "$.quoteSummary.result[0].financialData.revenueGrowth.raw")
	f.ProfitMargin = getFloat(jobj, "$.quoteSummary.result[0].financialData.profitMargins.raw")
	f.ReturnOnEquity = getFloat(jobj, "$.quoteSummary.result[0].financialData.returnOnEquity.raw")
	f.CurrentRatio = getFloat(jobj, "$.quoteSummary.result[0].financialData.currentRatio.raw")

	// Yahoo reports debtToEquity as a percentage (150 means 1.5x equity); the
	// scorers expect a plain ratio.
	if dte := getFloat(jobj, "$.quoteSummary.result[0].financialData.debtToEquity.raw"); dte != nil {
		ratio := *dte / 100
		f.DebtToEquity = &ratio
	}
	return f, nil
}

// getFloat extracts a float at path, nil when absent or not a number.
func getFloat(jobj any, path string) *float64 {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil
	}
	// jsonpath is never clear about whether it returns a list of 1 answer or
	// a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	if v, ok := jval.(float64); ok {
		return &v
	}
	return nil
}

// getString extracts a string at path, "" when absent.
func getString(jobj any, path string) string {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return ""
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	if s, ok := jval.(string); ok {
		return s
	}
	return ""
}

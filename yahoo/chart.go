package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/etnz/advisor"
	"github.com/etnz/advisor/date"
)

var _ advisor.Provider = (*Client)(nil)

// chartResponse mirrors the subset of the v8 chart payload the advisor needs.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Daily returns the daily candles of a symbol over a date range.
func (c *Client) Daily(ctx context.Context, symbol string, r date.Range) (*advisor.PriceSeries, error) {
	addr := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d&events=history",
		chartURL, url.PathEscape(symbol), unix(r.From), unix(r.To.Add(1)))
	var resp chartResponse
	if err := jwget(ctx, c.client, addr, &resp); err != nil {
		return nil, fmt.Errorf("fetching chart for %s: %w", symbol, err)
	}
	return decodeChart(symbol, &resp)
}

// Spot returns the latest known price of a symbol.
func (c *Client) Spot(ctx context.Context, symbol string) (float64, error) {
	addr := fmt.Sprintf("%s/%s?range=1d&interval=1d", chartURL, url.PathEscape(symbol))
	var resp chartResponse
	if err := jwget(ctx, c.client, addr, &resp); err != nil {
		return 0, fmt.Errorf("fetching spot for %s: %w", symbol, err)
	}
	if e := resp.Chart.Error; e != nil {
		return 0, fmt.Errorf("spot %s: %s (%s): %w", symbol, e.Description, e.Code, advisor.ErrNotFound)
	}
	if len(resp.Chart.Result) == 0 {
		return 0, fmt.Errorf("spot %s: empty result: %w", symbol, advisor.ErrDataUnavailable)
	}
	price := resp.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("spot %s: no market price: %w", symbol, advisor.ErrDataUnavailable)
	}
	return price, nil
}

// decodeChart converts a chart payload into a price series. Days where Yahoo
// reports a null close (halts, partial data) are skipped.
func decodeChart(symbol string, resp *chartResponse) (*advisor.PriceSeries, error) {
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("chart %s: %s (%s): %w", symbol, e.Description, e.Code, advisor.ErrNotFound)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: empty result: %w", symbol, advisor.ErrDataUnavailable)
	}
	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart %s: no quote data: %w", symbol, advisor.ErrDataUnavailable)
	}
	quote := result.Indicators.Quote[0]

	series := advisor.NewPriceSeries(symbol)
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		t := time.Unix(ts, 0).UTC()
		candle := advisor.Candle{
			Day:   date.New(t.Year(), t.Month(), t.Day()),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		series.Append(candle)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("chart %s: no usable candles: %w", symbol, advisor.ErrDataUnavailable)
	}
	return series, nil
}

func unix(d date.Date) int64 {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

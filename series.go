package advisor

import (
	"fmt"

	"github.com/etnz/advisor/date"
)

// Candle is one day of market data for a security.
type Candle struct {
	Day    date.Date `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is the daily price history of a single security, in
// chronological order with unique days. It is produced by a market-data
// provider and consumed read-only by the analytics core.
type PriceSeries struct {
	Symbol  string
	candles date.History[Candle]
}

// NewPriceSeries returns an empty price series for a symbol.
func NewPriceSeries(symbol string) *PriceSeries {
	return &PriceSeries{Symbol: symbol}
}

// Append records a candle. A candle already recorded on that day is replaced.
func (s *PriceSeries) Append(c Candle) *PriceSeries {
	s.candles.Append(c.Day, c)
	return s
}

// Len returns the number of days in the series.
func (s *PriceSeries) Len() int { return s.candles.Len() }

// Last returns the most recent candle.
func (s *PriceSeries) Last() (Candle, bool) {
	day, c := s.candles.Latest()
	if day.IsZero() {
		return Candle{}, false
	}
	return c, true
}

// Candles returns all candles in chronological order.
func (s *PriceSeries) Candles() []Candle { return s.candles.Slice() }

// Closes returns the closing prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	candles := s.candles.Slice()
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// Returns computes the daily simple returns of the closing prices:
// r[i] = close[i+1]/close[i] - 1. A series of n days yields n-1 returns.
func (s *PriceSeries) Returns() []float64 {
	return SimpleReturns(s.Closes())
}

// SimpleReturns computes period-over-period simple returns of a price slice.
// Zero prices are skipped to avoid division blowups from bad upstream data.
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, prices[i]/prices[i-1]-1)
	}
	return returns
}

// Validate checks the series for non-positive prices, which indicate corrupt
// upstream data.
func (s *PriceSeries) Validate() error {
	for _, c := range s.candles.Slice() {
		if c.Close <= 0 || c.Open <= 0 || c.High <= 0 || c.Low <= 0 {
			return fmt.Errorf("series %s has a non-positive price on %s", s.Symbol, c.Day)
		}
	}
	return nil
}

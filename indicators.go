package advisor

import "math"

// Standard indicator windows. Callers can compute with different windows via
// the low level helpers, but the decision pipeline uses these.
const (
	smaShortWindow  = 20
	smaMediumWindow = 50
	smaLongWindow   = 200
	emaFastWindow   = 12
	emaSlowWindow   = 26
	macdSignalSpan  = 9
	rsiWindow       = 14
	bollingerWindow = 20
	bollingerWidth  = 2.0
)

// IndicatorSet is a point-in-time snapshot of the technical indicators of a
// security. A nil field means the price history was too short for that
// indicator's window: absent, never zero-filled. The JSON names are part of
// the stored-history format and must not change.
type IndicatorSet struct {
	SMA20         *float64 `json:"SMA_20,omitempty"`
	SMA50         *float64 `json:"SMA_50,omitempty"`
	SMA200        *float64 `json:"SMA_200,omitempty"`
	EMA12         *float64 `json:"EMA_12,omitempty"`
	EMA26         *float64 `json:"EMA_26,omitempty"`
	RSI14         *float64 `json:"RSI_14,omitempty"`
	MACD          *float64 `json:"MACD,omitempty"`
	MACDSignal    *float64 `json:"MACD_signal,omitempty"`
	MACDHistogram *float64 `json:"MACD_histogram,omitempty"`
	BBUpper       *float64 `json:"BB_upper,omitempty"`
	BBMiddle      *float64 `json:"BB_middle,omitempty"`
	BBLower       *float64 `json:"BB_lower,omitempty"`
	OBV           *float64 `json:"OBV,omitempty"`
	CurrentPrice  float64  `json:"current_price"`
}

// ComputeIndicators derives the indicator snapshot from a daily price series.
// Only the latest value of each indicator is surfaced, but the full series is
// computed internally so trailing windows are exact. An empty or nil series
// yields ErrDataUnavailable, never a partial result.
func ComputeIndicators(s *PriceSeries) (*IndicatorSet, error) {
	if s == nil || s.Len() == 0 {
		return nil, ErrDataUnavailable
	}
	closes := s.Closes()
	last, _ := s.Last()

	set := &IndicatorSet{CurrentPrice: last.Close}
	set.SMA20 = lastSMA(closes, smaShortWindow)
	set.SMA50 = lastSMA(closes, smaMediumWindow)
	set.SMA200 = lastSMA(closes, smaLongWindow)
	set.EMA12 = lastOf(emaSeries(closes, emaFastWindow))
	set.EMA26 = lastOf(emaSeries(closes, emaSlowWindow))
	set.RSI14 = lastRSI(closes, rsiWindow)
	set.MACD, set.MACDSignal, set.MACDHistogram = lastMACD(closes)
	set.BBUpper, set.BBMiddle, set.BBLower = lastBollinger(closes, bollingerWindow, bollingerWidth)

	obv := lastOBV(s.Candles())
	set.OBV = &obv
	return set, nil
}

// lastSMA returns the trailing simple moving average of the last 'period'
// values, or nil when the series is shorter than the window.
func lastSMA(values []float64, period int) *float64 {
	if len(values) < period {
		return nil
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	avg := sum / float64(period)
	return &avg
}

// emaSeries computes the exponential moving average over the whole series,
// seeded with the simple average of the first 'period' values. The result is
// aligned with the input: entries before index period-1 are meaningless and
// the function returns nil when the input is shorter than the window.
func emaSeries(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	multiplier := 2.0 / (float64(period) + 1.0)
	out := make([]float64, len(values))

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema
	for i := period; i < len(values); i++ {
		ema = values[i]*multiplier + ema*(1-multiplier)
		out[i] = ema
	}
	return out
}

func lastOf(series []float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	v := series[len(series)-1]
	return &v
}

// lastRSI computes the Relative Strength Index from the average gain and
// average loss over the trailing window. 100 when there was no loss at all.
func lastRSI(values []float64, period int) *float64 {
	if len(values) < period+1 {
		return nil
	}
	var gains, losses float64
	start := len(values) - period
	for i := start; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	var rsi float64
	if avgLoss == 0 {
		rsi = 100
	} else {
		rs := avgGain / avgLoss
		rsi = 100 - 100/(1+rs)
	}
	return &rsi
}

// lastMACD computes MACD = EMA12 - EMA26, its EMA9 signal line and the
// histogram. MACD needs 26 days; signal and histogram need 34.
func lastMACD(values []float64) (macd, signal, histogram *float64) {
	fast := emaSeries(values, emaFastWindow)
	slow := emaSeries(values, emaSlowWindow)
	if slow == nil {
		return nil, nil, nil
	}

	// The MACD line is meaningful from the first index where the slow EMA is.
	macdLine := make([]float64, 0, len(values)-emaSlowWindow+1)
	for i := emaSlowWindow - 1; i < len(values); i++ {
		macdLine = append(macdLine, fast[i]-slow[i])
	}
	macd = lastOf(macdLine)

	signalLine := emaSeries(macdLine, macdSignalSpan)
	signal = lastOf(signalLine)
	if macd != nil && signal != nil {
		h := *macd - *signal
		histogram = &h
	}
	return macd, signal, histogram
}

// lastBollinger computes the Bollinger Bands: the middle SMA and the upper and
// lower envelopes at 'width' population standard deviations.
func lastBollinger(values []float64, period int, width float64) (upper, middle, lower *float64) {
	mid := lastSMA(values, period)
	if mid == nil {
		return nil, nil, nil
	}
	variance := 0.0
	for _, v := range values[len(values)-period:] {
		d := v - *mid
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))

	up := *mid + width*std
	lo := *mid - width*std
	return &up, mid, &lo
}

// lastOBV computes On-Balance Volume: cumulative volume signed by the
// direction of the close-to-close move.
func lastOBV(candles []Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	obv := candles[0].Volume
	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			obv += candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			obv -= candles[i].Volume
		}
	}
	return obv
}

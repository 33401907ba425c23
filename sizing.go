package advisor

import (
	"fmt"
	"math"
)

// PositionSizing is a fixed-fractional sizing recommendation for a single
// trade. It is computed fresh on each call, never cached.
type PositionSizing struct {
	Symbol            string  `json:"symbol"`
	CurrentPrice      float64 `json:"current_price"`
	RecommendedShares int     `json:"recommended_shares"`
	PositionValue     float64 `json:"position_value"`
	StopLossPrice     float64 `json:"stop_loss_price"`
	RiskAmount        float64 `json:"risk_amount"`
	RiskPercent       float64 `json:"risk_percent"`
	MaxLoss           float64 `json:"max_loss"`
}

// SizePosition computes a fixed-fractional position size: risk a fraction of
// the portfolio per trade, place the stop at stopLoss below entry, and derive
// the share count, then cap the position at maxPositionFraction of the
// portfolio. Shares are whole: the value is floored, never rounded up.
func SizePosition(symbol string, price, portfolioValue, riskPerTrade, stopLoss, maxPositionFraction float64) (*PositionSizing, error) {
	if price <= 0 {
		return nil, fmt.Errorf("sizing %s: no usable price: %w", symbol, ErrDataUnavailable)
	}
	if portfolioValue <= 0 {
		return nil, fmt.Errorf("sizing %s: non-positive portfolio value %g", symbol, portfolioValue)
	}
	if riskPerTrade <= 0 || stopLoss <= 0 || maxPositionFraction <= 0 {
		return nil, fmt.Errorf("sizing %s: non-positive risk parameters", symbol)
	}

	riskAmount := portfolioValue * riskPerTrade
	positionValue := riskAmount / stopLoss
	shares := int(math.Floor(positionValue / price))

	maxValue := portfolioValue * maxPositionFraction
	if float64(shares)*price > maxValue {
		shares = int(math.Floor(maxValue / price))
	}

	actual := float64(shares) * price
	return &PositionSizing{
		Symbol:            symbol,
		CurrentPrice:      price,
		RecommendedShares: shares,
		PositionValue:     actual,
		StopLossPrice:     price * (1 - stopLoss),
		RiskAmount:        riskAmount,
		RiskPercent:       actual / portfolioValue * 100,
		MaxLoss:           actual * stopLoss,
	}, nil
}

// Kelly returns the fraction of capital to commit according to the Kelly
// criterion, halved for safety and capped at 25%. winLossRatio is the average
// win divided by the average loss. Never negative.
func Kelly(winProbability, winLossRatio float64) float64 {
	if winLossRatio <= 0 {
		return 0
	}
	q := 1 - winProbability
	kelly := (winProbability*winLossRatio - q) / winLossRatio
	half := kelly / 2
	return math.Max(0, math.Min(half, 0.25))
}

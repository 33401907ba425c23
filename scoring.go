package advisor

import "math"

// scoreCard accumulates (points earned, points possible) pairs. A dimension
// that could not be evaluated is simply never added, so it is excluded from
// both numerator and denominator instead of being penalized.
type scoreCard struct {
	earned   float64
	possible float64
}

func (c *scoreCard) add(points float64) {
	c.earned += points
	c.possible++
}

// score returns earned/possible, or the neutral 0.5 when nothing at all was
// evaluable.
func (c *scoreCard) score() float64 {
	if c.possible == 0 {
		return 0.5
	}
	return c.earned / c.possible
}

// RSI thresholds for the oversold and overbought labels.
const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// ScoreTechnical converts an indicator snapshot into categorical signals and
// a normalized technical score in [0,1]. Each evaluable dimension contributes
// one point: full for the favorable label, half for neutral, none otherwise.
func ScoreTechnical(set *IndicatorSet) *TechnicalSignals {
	signals := &TechnicalSignals{}
	var card scoreCard
	if set == nil {
		signals.Score = card.score()
		return signals
	}

	if set.SMA20 != nil && set.SMA50 != nil {
		if *set.SMA20 > *set.SMA50 {
			signals.MATrend = ptr(Bullish)
			card.add(1)
		} else {
			signals.MATrend = ptr(Bearish)
			card.add(0)
		}
	}

	if set.SMA50 != nil && set.SMA200 != nil {
		if *set.SMA50 > *set.SMA200 {
			signals.LongTermTrend = ptr(Bullish)
			card.add(1)
		} else {
			signals.LongTermTrend = ptr(Bearish)
			card.add(0)
		}
	}

	if set.RSI14 != nil {
		rsi := *set.RSI14
		signals.RSIValue = ptr(rsi)
		switch {
		case rsi < rsiOversold:
			signals.RSISignal = ptr(Oversold)
			card.add(1)
		case rsi > rsiOverbought:
			signals.RSISignal = ptr(Overbought)
			card.add(0)
		default:
			signals.RSISignal = ptr(OscillatorNeutral)
			card.add(0.5)
		}
	}

	if set.MACD != nil && set.MACDSignal != nil {
		if *set.MACD > *set.MACDSignal {
			signals.MACDSignal = ptr(Bullish)
			card.add(1)
		} else {
			signals.MACDSignal = ptr(Bearish)
			card.add(0)
		}
	}

	if set.BBUpper != nil && set.BBLower != nil {
		switch {
		case set.CurrentPrice < *set.BBLower:
			signals.BBSignal = ptr(BandOversold)
			card.add(1)
		case set.CurrentPrice > *set.BBUpper:
			signals.BBSignal = ptr(BandOverbought)
			card.add(0)
		default:
			signals.BBSignal = ptr(BandNormal)
			card.add(0.5)
		}
	}

	signals.Score = card.score()
	return signals
}

// ScoreFundamentals converts a fundamentals snapshot into categorical signals
// and a normalized fundamental score in [0,1].
func ScoreFundamentals(f *FundamentalSet) *FundamentalSignals {
	signals := &FundamentalSignals{}
	var card scoreCard
	if f == nil {
		signals.Score = card.score()
		return signals
	}

	// Negative earnings make the P/E meaningless, so the dimension is skipped.
	if f.PERatio != nil && *f.PERatio > 0 {
		switch pe := *f.PERatio; {
		case pe < 15:
			signals.PESignal = ptr(Undervalued)
			card.add(1)
		case pe < 25:
			signals.PESignal = ptr(Fair)
			card.add(0.5)
		default:
			signals.PESignal = ptr(Overvalued)
			card.add(0)
		}
	}

	if f.EarningsGrowth != nil && f.RevenueGrowth != nil {
		eg, rg := *f.EarningsGrowth, *f.RevenueGrowth
		switch {
		case eg > 0.15 && rg > 0.10:
			signals.GrowthSignal = ptr(Strong)
			card.add(1)
		case eg > 0 && rg > 0:
			signals.GrowthSignal = ptr(Moderate)
			card.add(0.5)
		default:
			signals.GrowthSignal = ptr(Weak)
			card.add(0)
		}
	}

	if f.ProfitMargin != nil && f.ReturnOnEquity != nil {
		pm, roe := *f.ProfitMargin, *f.ReturnOnEquity
		switch {
		case pm > 0.15 && roe > 0.15:
			signals.ProfitabilitySignal = ptr(Strong)
			card.add(1)
		case pm > 0 && roe > 0:
			signals.ProfitabilitySignal = ptr(Moderate)
			card.add(0.5)
		default:
			signals.ProfitabilitySignal = ptr(Weak)
			card.add(0)
		}
	}

	if f.DebtToEquity != nil && f.CurrentRatio != nil {
		dte, cr := *f.DebtToEquity, *f.CurrentRatio
		switch {
		case dte < 0.5 && cr > 1.5:
			signals.FinancialHealth = ptr(Strong)
			card.add(1)
		case dte < 1.0 && cr > 1.0:
			signals.FinancialHealth = ptr(Moderate)
			card.add(0.5)
		default:
			signals.FinancialHealth = ptr(Weak)
			card.add(0)
		}
	}

	signals.Score = card.score()
	return signals
}

// ScoreRisk labels the risk profile from annualized volatility and beta.
// There is no composite score; unavailable inputs leave their label nil.
func ScoreRisk(volatility, beta *float64) *RiskSignals {
	signals := &RiskSignals{}
	if volatility != nil {
		signals.Volatility = ptr(classifyVolatility(*volatility))
	}
	if beta != nil {
		signals.Beta = ptr(classifyBeta(*beta))
	}
	return signals
}

func classifyVolatility(v float64) VolatilityLevel {
	switch {
	case v < 0.2:
		return VolatilityLow
	case v < 0.4:
		return VolatilityMedium
	default:
		return VolatilityHigh
	}
}

func classifyBeta(b float64) BetaLevel {
	switch {
	case math.Abs(b-1) < 0.3:
		return BetaMarket
	case b > 1.3:
		return BetaHigh
	case b < 0.7:
		return BetaLow
	default:
		return BetaModerate
	}
}

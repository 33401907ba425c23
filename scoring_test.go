package advisor

import "testing"

func TestScoreTechnicalNil(t *testing.T) {
	signals := ScoreTechnical(nil)
	if signals.Score != 0.5 {
		t.Errorf("score = %g, want the neutral 0.5", signals.Score)
	}
	if signals.MATrend != nil || signals.RSISignal != nil || signals.BBSignal != nil {
		t.Error("no indicator should yield a label")
	}
}

func TestScoreTechnicalRSIBoundaries(t *testing.T) {
	// The 30 and 70 thresholds are strict: landing exactly on one is neutral.
	tests := []struct {
		rsi    float64
		signal OscillatorSignal
		score  float64
	}{
		{29.99, Oversold, 1},
		{30.0, OscillatorNeutral, 0.5},
		{30.01, OscillatorNeutral, 0.5},
		{50, OscillatorNeutral, 0.5},
		{70.0, OscillatorNeutral, 0.5},
		{70.01, Overbought, 0},
	}
	for _, tt := range tests {
		set := &IndicatorSet{RSI14: ptr(tt.rsi)}
		signals := ScoreTechnical(set)
		if signals.RSISignal == nil || *signals.RSISignal != tt.signal {
			t.Errorf("RSI %g: signal = %v, want %s", tt.rsi, signals.RSISignal, tt.signal)
		}
		if signals.RSIValue == nil || *signals.RSIValue != tt.rsi {
			t.Errorf("RSI %g: value not echoed back", tt.rsi)
		}
		if signals.Score != tt.score {
			t.Errorf("RSI %g: score = %g, want %g", tt.rsi, signals.Score, tt.score)
		}
	}
}

func TestScoreTechnicalAllBullish(t *testing.T) {
	set := &IndicatorSet{
		SMA20:        ptr(110.0),
		SMA50:        ptr(100.0),
		SMA200:       ptr(90.0),
		RSI14:        ptr(25.0),
		MACD:         ptr(2.0),
		MACDSignal:   ptr(1.0),
		BBUpper:      ptr(120.0),
		BBLower:      ptr(95.0),
		CurrentPrice: 94,
	}
	signals := ScoreTechnical(set)
	if signals.Score != 1 {
		t.Errorf("score = %g, want 1", signals.Score)
	}
	if *signals.MATrend != Bullish || *signals.LongTermTrend != Bullish {
		t.Error("trends should be BULLISH")
	}
	if *signals.RSISignal != Oversold {
		t.Errorf("RSI signal = %s, want OVERSOLD", signals.RSISignal)
	}
	if *signals.MACDSignal != Bullish {
		t.Errorf("MACD signal = %s, want BULLISH", signals.MACDSignal)
	}
	if *signals.BBSignal != BandOversold {
		t.Errorf("BB signal = %s, want OVERSOLD", signals.BBSignal)
	}
}

func TestScoreTechnicalSkipsMissingDimensions(t *testing.T) {
	// Only the short trend is evaluable and it is bearish: 0 out of 1 point.
	// The missing dimensions must not dilute the score towards 0.5.
	set := &IndicatorSet{SMA20: ptr(90.0), SMA50: ptr(100.0)}
	signals := ScoreTechnical(set)
	if signals.Score != 0 {
		t.Errorf("score = %g, want 0", signals.Score)
	}
	if *signals.MATrend != Bearish {
		t.Errorf("MA trend = %s, want BEARISH", signals.MATrend)
	}
	if signals.LongTermTrend != nil || signals.RSISignal != nil || signals.MACDSignal != nil || signals.BBSignal != nil {
		t.Error("missing dimensions should carry no label")
	}
}

func TestScoreFundamentals(t *testing.T) {
	if got := ScoreFundamentals(nil); got.Score != 0.5 {
		t.Errorf("nil fundamentals score = %g, want 0.5", got.Score)
	}

	// Negative earnings: the P/E dimension is skipped, not scored as bad.
	loss := ScoreFundamentals(&FundamentalSet{PERatio: ptr(-5.0)})
	if loss.PESignal != nil {
		t.Errorf("negative P/E signal = %v, want nil", loss.PESignal)
	}
	if loss.Score != 0.5 {
		t.Errorf("negative P/E score = %g, want the neutral 0.5", loss.Score)
	}

	strong := ScoreFundamentals(&FundamentalSet{
		PERatio:        ptr(10.0),
		EarningsGrowth: ptr(0.20),
		RevenueGrowth:  ptr(0.12),
		ProfitMargin:   ptr(0.20),
		ReturnOnEquity: ptr(0.20),
		DebtToEquity:   ptr(0.30),
		CurrentRatio:   ptr(2.0),
	})
	if strong.Score != 1 {
		t.Errorf("strong profile score = %g, want 1", strong.Score)
	}
	if *strong.PESignal != Undervalued || *strong.GrowthSignal != Strong ||
		*strong.ProfitabilitySignal != Strong || *strong.FinancialHealth != Strong {
		t.Errorf("strong profile labels = %s/%s/%s/%s", strong.PESignal, strong.GrowthSignal, strong.ProfitabilitySignal, strong.FinancialHealth)
	}

	middling := ScoreFundamentals(&FundamentalSet{
		PERatio:        ptr(20.0),
		EarningsGrowth: ptr(0.05),
		RevenueGrowth:  ptr(0.05),
		ProfitMargin:   ptr(0.05),
		ReturnOnEquity: ptr(0.05),
		DebtToEquity:   ptr(0.80),
		CurrentRatio:   ptr(1.2),
	})
	if middling.Score != 0.5 {
		t.Errorf("middling profile score = %g, want 0.5", middling.Score)
	}
	if *middling.PESignal != Fair || *middling.GrowthSignal != Moderate ||
		*middling.ProfitabilitySignal != Moderate || *middling.FinancialHealth != Moderate {
		t.Errorf("middling profile labels = %s/%s/%s/%s", middling.PESignal, middling.GrowthSignal, middling.ProfitabilitySignal, middling.FinancialHealth)
	}

	weak := ScoreFundamentals(&FundamentalSet{
		PERatio:        ptr(40.0),
		EarningsGrowth: ptr(-0.05),
		RevenueGrowth:  ptr(0.02),
		ProfitMargin:   ptr(-0.10),
		ReturnOnEquity: ptr(0.02),
		DebtToEquity:   ptr(2.0),
		CurrentRatio:   ptr(0.8),
	})
	if weak.Score != 0 {
		t.Errorf("weak profile score = %g, want 0", weak.Score)
	}
}

func TestClassifyVolatility(t *testing.T) {
	tests := []struct {
		vol  float64
		want VolatilityLevel
	}{
		{0.10, VolatilityLow},
		{0.19, VolatilityLow},
		{0.20, VolatilityMedium},
		{0.39, VolatilityMedium},
		{0.40, VolatilityHigh},
		{0.80, VolatilityHigh},
	}
	for _, tt := range tests {
		if got := classifyVolatility(tt.vol); got != tt.want {
			t.Errorf("classifyVolatility(%g) = %s, want %s", tt.vol, got, tt.want)
		}
	}
}

func TestClassifyBeta(t *testing.T) {
	tests := []struct {
		beta float64
		want BetaLevel
	}{
		{1.0, BetaMarket},
		{0.71, BetaMarket},
		{1.29, BetaMarket},
		{1.30, BetaModerate},
		{1.31, BetaHigh},
		{2.0, BetaHigh},
		{0.70, BetaModerate},
		{0.69, BetaLow},
		{-0.5, BetaLow},
	}
	for _, tt := range tests {
		if got := classifyBeta(tt.beta); got != tt.want {
			t.Errorf("classifyBeta(%g) = %s, want %s", tt.beta, got, tt.want)
		}
	}
}

func TestScoreRiskMissingInputs(t *testing.T) {
	signals := ScoreRisk(nil, nil)
	if signals.Volatility != nil || signals.Beta != nil {
		t.Error("missing inputs should leave labels nil")
	}
	signals = ScoreRisk(ptr(0.25), nil)
	if signals.Volatility == nil || *signals.Volatility != VolatilityMedium {
		t.Errorf("volatility label = %v, want MEDIUM", signals.Volatility)
	}
	if signals.Beta != nil {
		t.Error("beta label should stay nil without a beta")
	}
}

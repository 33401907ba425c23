package advisor

import (
	"encoding/json"
	"fmt"
)

// The scorers emit closed enumerations, not free strings, so that a switch
// over labels is exhaustive. Each enum marshals to the label used in the
// stored-history format.

// Trend qualifies a directional signal (moving average cross, MACD cross).
type Trend int

const (
	Neutral Trend = iota
	Bullish
	Bearish
)

func (t Trend) String() string {
	switch t {
	case Neutral:
		return "NEUTRAL"
	case Bullish:
		return "BULLISH"
	case Bearish:
		return "BEARISH"
	default:
		return fmt.Sprintf("Trend(%d)", int(t))
	}
}

// ParseTrend converts a label back into a Trend.
func ParseTrend(s string) (Trend, error) {
	switch s {
	case "NEUTRAL":
		return Neutral, nil
	case "BULLISH":
		return Bullish, nil
	case "BEARISH":
		return Bearish, nil
	default:
		return Neutral, fmt.Errorf("invalid trend %q", s)
	}
}

// OscillatorSignal qualifies a bounded oscillator such as the RSI.
type OscillatorSignal int

const (
	OscillatorNeutral OscillatorSignal = iota
	Oversold
	Overbought
)

func (o OscillatorSignal) String() string {
	switch o {
	case OscillatorNeutral:
		return "NEUTRAL"
	case Oversold:
		return "OVERSOLD"
	case Overbought:
		return "OVERBOUGHT"
	default:
		return fmt.Sprintf("OscillatorSignal(%d)", int(o))
	}
}

// ParseOscillatorSignal converts a label back into an OscillatorSignal.
func ParseOscillatorSignal(s string) (OscillatorSignal, error) {
	switch s {
	case "NEUTRAL":
		return OscillatorNeutral, nil
	case "OVERSOLD":
		return Oversold, nil
	case "OVERBOUGHT":
		return Overbought, nil
	default:
		return OscillatorNeutral, fmt.Errorf("invalid oscillator signal %q", s)
	}
}

// BandSignal qualifies the price position relative to the Bollinger envelope.
type BandSignal int

const (
	BandNormal BandSignal = iota
	BandOversold
	BandOverbought
)

func (b BandSignal) String() string {
	switch b {
	case BandNormal:
		return "NORMAL"
	case BandOversold:
		return "OVERSOLD"
	case BandOverbought:
		return "OVERBOUGHT"
	default:
		return fmt.Sprintf("BandSignal(%d)", int(b))
	}
}

// ParseBandSignal converts a label back into a BandSignal.
func ParseBandSignal(s string) (BandSignal, error) {
	switch s {
	case "NORMAL":
		return BandNormal, nil
	case "OVERSOLD":
		return BandOversold, nil
	case "OVERBOUGHT":
		return BandOverbought, nil
	default:
		return BandNormal, fmt.Errorf("invalid band signal %q", s)
	}
}

// Valuation qualifies a price multiple such as the P/E ratio.
type Valuation int

const (
	Fair Valuation = iota
	Undervalued
	Overvalued
)

func (v Valuation) String() string {
	switch v {
	case Fair:
		return "FAIR"
	case Undervalued:
		return "UNDERVALUED"
	case Overvalued:
		return "OVERVALUED"
	default:
		return fmt.Sprintf("Valuation(%d)", int(v))
	}
}

// ParseValuation converts a label back into a Valuation.
func ParseValuation(s string) (Valuation, error) {
	switch s {
	case "FAIR":
		return Fair, nil
	case "UNDERVALUED":
		return Undervalued, nil
	case "OVERVALUED":
		return Overvalued, nil
	default:
		return Fair, fmt.Errorf("invalid valuation %q", s)
	}
}

// Strength grades a fundamental dimension (growth, profitability, health).
type Strength int

const (
	Weak Strength = iota
	Moderate
	Strong
)

func (s Strength) String() string {
	switch s {
	case Weak:
		return "WEAK"
	case Moderate:
		return "MODERATE"
	case Strong:
		return "STRONG"
	default:
		return fmt.Sprintf("Strength(%d)", int(s))
	}
}

// ParseStrength converts a label back into a Strength.
func ParseStrength(s string) (Strength, error) {
	switch s {
	case "WEAK":
		return Weak, nil
	case "MODERATE":
		return Moderate, nil
	case "STRONG":
		return Strong, nil
	default:
		return Weak, fmt.Errorf("invalid strength %q", s)
	}
}

// VolatilityLevel buckets the annualized volatility of a security.
type VolatilityLevel int

const (
	VolatilityLow VolatilityLevel = iota
	VolatilityMedium
	VolatilityHigh
)

func (v VolatilityLevel) String() string {
	switch v {
	case VolatilityLow:
		return "LOW"
	case VolatilityMedium:
		return "MEDIUM"
	case VolatilityHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("VolatilityLevel(%d)", int(v))
	}
}

// ParseVolatilityLevel converts a label back into a VolatilityLevel.
func ParseVolatilityLevel(s string) (VolatilityLevel, error) {
	switch s {
	case "LOW":
		return VolatilityLow, nil
	case "MEDIUM":
		return VolatilityMedium, nil
	case "HIGH":
		return VolatilityHigh, nil
	default:
		return VolatilityLow, fmt.Errorf("invalid volatility level %q", s)
	}
}

// BetaLevel buckets the sensitivity of a security to its benchmark.
type BetaLevel int

const (
	BetaMarket BetaLevel = iota
	BetaHigh
	BetaLow
	BetaModerate
)

func (b BetaLevel) String() string {
	switch b {
	case BetaMarket:
		return "MARKET"
	case BetaHigh:
		return "HIGH"
	case BetaLow:
		return "LOW"
	case BetaModerate:
		return "MODERATE"
	default:
		return fmt.Sprintf("BetaLevel(%d)", int(b))
	}
}

// ParseBetaLevel converts a label back into a BetaLevel.
func ParseBetaLevel(s string) (BetaLevel, error) {
	switch s {
	case "MARKET":
		return BetaMarket, nil
	case "HIGH":
		return BetaHigh, nil
	case "LOW":
		return BetaLow, nil
	case "MODERATE":
		return BetaModerate, nil
	default:
		return BetaMarket, fmt.Errorf("invalid beta level %q", s)
	}
}

// RiskLevel grades the overall risk of an open position. The buckets are
// wider than the volatility signal's: a position is only MEDIUM above 25%
// annualized volatility.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("RiskLevel(%d)", int(r))
	}
}

// ParseRiskLevel converts a label back into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case "LOW":
		return RiskLow, nil
	case "MEDIUM":
		return RiskMedium, nil
	case "HIGH":
		return RiskHigh, nil
	default:
		return RiskLow, fmt.Errorf("invalid risk level %q", s)
	}
}

func (t Trend) MarshalJSON() ([]byte, error)            { return json.Marshal(t.String()) }
func (o OscillatorSignal) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }
func (b BandSignal) MarshalJSON() ([]byte, error)       { return json.Marshal(b.String()) }
func (v Valuation) MarshalJSON() ([]byte, error)        { return json.Marshal(v.String()) }
func (s Strength) MarshalJSON() ([]byte, error)         { return json.Marshal(s.String()) }
func (v VolatilityLevel) MarshalJSON() ([]byte, error)  { return json.Marshal(v.String()) }
func (b BetaLevel) MarshalJSON() ([]byte, error)        { return json.Marshal(b.String()) }
func (r RiskLevel) MarshalJSON() ([]byte, error)        { return json.Marshal(r.String()) }

func (t *Trend) UnmarshalJSON(b []byte) error { return unmarshalEnum(b, t, ParseTrend) }
func (o *OscillatorSignal) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, o, ParseOscillatorSignal)
}
func (s *BandSignal) UnmarshalJSON(b []byte) error { return unmarshalEnum(b, s, ParseBandSignal) }
func (v *Valuation) UnmarshalJSON(b []byte) error  { return unmarshalEnum(b, v, ParseValuation) }
func (s *Strength) UnmarshalJSON(b []byte) error   { return unmarshalEnum(b, s, ParseStrength) }
func (v *VolatilityLevel) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, v, ParseVolatilityLevel)
}
func (v *BetaLevel) UnmarshalJSON(b []byte) error { return unmarshalEnum(b, v, ParseBetaLevel) }
func (r *RiskLevel) UnmarshalJSON(b []byte) error { return unmarshalEnum(b, r, ParseRiskLevel) }

// unmarshalEnum decodes a quoted label with the enum's parser.
func unmarshalEnum[T any](b []byte, dst *T, parse func(string) (T, error)) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// TechnicalSignals is the SignalSet emitted by the technical scorer. A nil
// signal means the underlying indicator was unavailable and the dimension was
// excluded from the score.
type TechnicalSignals struct {
	MATrend       *Trend            `json:"ma_trend,omitempty"`
	LongTermTrend *Trend            `json:"long_term_trend,omitempty"`
	RSISignal     *OscillatorSignal `json:"rsi_signal,omitempty"`
	RSIValue      *float64          `json:"rsi_value,omitempty"`
	MACDSignal    *Trend            `json:"macd_signal,omitempty"`
	BBSignal      *BandSignal       `json:"bb_signal,omitempty"`
	Score         float64           `json:"technical_score"`
}

// FundamentalSignals is the SignalSet emitted by the fundamental scorer.
type FundamentalSignals struct {
	PESignal            *Valuation `json:"pe_signal,omitempty"`
	GrowthSignal        *Strength  `json:"growth_signal,omitempty"`
	ProfitabilitySignal *Strength  `json:"profitability_signal,omitempty"`
	FinancialHealth     *Strength  `json:"financial_health,omitempty"`
	Score               float64    `json:"fundamental_score"`
}

// RiskSignals labels the risk profile of a security. There is no composite
// numeric score; the decision engine consumes the volatility label directly.
type RiskSignals struct {
	Volatility *VolatilityLevel `json:"volatility_level,omitempty"`
	Beta       *BetaLevel       `json:"beta_level,omitempty"`
}

func ptr[T any](v T) *T { return &v }

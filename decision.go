package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/etnz/advisor/date"
)

// DecisionType is the ternary recommendation of the decision engine.
type DecisionType int

const (
	Hold DecisionType = iota
	Buy
	Sell
)

func (d DecisionType) String() string {
	switch d {
	case Hold:
		return "HOLD"
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return fmt.Sprintf("DecisionType(%d)", int(d))
	}
}

// ParseDecisionType converts a label back into a DecisionType.
func ParseDecisionType(s string) (DecisionType, error) {
	switch s {
	case "HOLD":
		return Hold, nil
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return Hold, fmt.Errorf("invalid decision type %q", s)
	}
}

// DecisionStatus tracks a decision through its caller-driven lifecycle.
type DecisionStatus int

const (
	Pending DecisionStatus = iota
	Accepted
	Rejected
	Executed
)

func (s DecisionStatus) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Accepted:
		return "ACCEPTED"
	case Rejected:
		return "REJECTED"
	case Executed:
		return "EXECUTED"
	default:
		return fmt.Sprintf("DecisionStatus(%d)", int(s))
	}
}

// ParseDecisionStatus converts a label back into a DecisionStatus.
func ParseDecisionStatus(s string) (DecisionStatus, error) {
	switch s {
	case "PENDING":
		return Pending, nil
	case "ACCEPTED":
		return Accepted, nil
	case "REJECTED":
		return Rejected, nil
	case "EXECUTED":
		return Executed, nil
	default:
		return Pending, fmt.Errorf("invalid decision status %q", s)
	}
}

func (d DecisionType) MarshalJSON() ([]byte, error)   { return json.Marshal(d.String()) }
func (s DecisionStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }
func (d *DecisionType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, d, ParseDecisionType)
}
func (s *DecisionStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseDecisionStatus)
}

// Decision is the outcome of analyzing one security: a recommendation, its
// confidence, the signals that produced it, and an optional sizing. It is a
// value object; persisting it and driving its status transitions is the
// caller's job.
// Decisions marshal through a custom codec (see decisionlog.go) so the stored
// field order is stable and the combined score survives round trips.
type Decision struct {
	ID          int
	Day         date.Date
	Symbol      string
	Type        DecisionType
	Confidence  float64
	Reasoning   string
	Technical   *TechnicalSignals
	Fundamental *FundamentalSignals
	Risk        *RiskSignals
	Quantity    *float64
	Price       *float64
	Sizing      *PositionSizing
	Status      DecisionStatus

	score float64
}

// Score is the combined weighted score behind the decision, in [0,1].
func (d *Decision) Score() float64 { return d.score }

// Accept marks a pending decision as accepted.
func (d *Decision) Accept() error { return d.transition(Pending, Accepted) }

// Reject marks a pending decision as rejected.
func (d *Decision) Reject() error { return d.transition(Pending, Rejected) }

// MarkExecuted marks an accepted decision as executed.
func (d *Decision) MarkExecuted() error { return d.transition(Accepted, Executed) }

func (d *Decision) transition(from, to DecisionStatus) error {
	if d.Status != from {
		return fmt.Errorf("decision %d is %s, cannot move to %s", d.ID, d.Status, to)
	}
	d.Status = to
	return nil
}

// Reasoner produces a short natural-language rationale from a structured
// prompt. Implementations are best effort: any error makes the engine fall
// back to a templated sentence.
type Reasoner interface {
	Reason(ctx context.Context, prompt string) (string, error)
}

// Engine combines the scorer outputs into a decision. The zero value is not
// usable; build it with NewEngine or fill the risk parameters explicitly.
type Engine struct {
	// Reasoner is optional. When nil, decisions carry the templated rationale.
	Reasoner Reasoner

	RiskPerTrade        float64
	StopLoss            float64
	MaxPositionFraction float64
}

// NewEngine returns an engine with the default risk parameters.
func NewEngine(reasoner Reasoner) *Engine {
	return &Engine{
		Reasoner:            reasoner,
		RiskPerTrade:        DefaultRiskPerTrade,
		StopLoss:            DefaultStopLoss,
		MaxPositionFraction: DefaultMaxPositionFraction,
	}
}

// Decision engine weights and thresholds.
const (
	technicalWeight   = 0.5
	fundamentalWeight = 0.3
	buyThreshold      = 0.65
	sellThreshold     = 0.35
	maxConfidence     = 0.95
	// highVolatilityAdjustment shrinks the score of jumpy securities.
	highVolatilityAdjustment = 0.8
)

// Decide combines the technical, fundamental and risk signals for a symbol
// into a recommendation. Technical signals are mandatory; missing fundamentals
// default to the neutral 0.5 and missing risk labels leave the score
// unadjusted. price and portfolioValue feed the sizing of BUY decisions; a
// sizing failure degrades to a decision without sizing, it never fails the
// decision.
func (e *Engine) Decide(ctx context.Context, symbol string, tech *TechnicalSignals, fund *FundamentalSignals, risk *RiskSignals, price, portfolioValue float64) (*Decision, error) {
	if tech == nil {
		return nil, fmt.Errorf("decide %s: no technical signals: %w", symbol, ErrDataUnavailable)
	}

	fundScore := 0.5
	if fund != nil {
		fundScore = fund.Score
	}
	adjustment := 1.0
	if risk != nil && risk.Volatility != nil && *risk.Volatility == VolatilityHigh {
		adjustment = highVolatilityAdjustment
	}
	total := (tech.Score*technicalWeight + fundScore*fundamentalWeight) * adjustment

	var kind DecisionType
	var confidence float64
	switch {
	case total >= buyThreshold:
		kind = Buy
		confidence = min(total, maxConfidence)
	case total <= sellThreshold:
		kind = Sell
		confidence = min(1-total, maxConfidence)
	default:
		kind = Hold
		diff := total - 0.5
		if diff < 0 {
			diff = -diff
		}
		confidence = 1 - 2*diff
	}

	d := &Decision{
		Day:         date.Today(),
		Symbol:      symbol,
		Type:        kind,
		Confidence:  confidence,
		Technical:   tech,
		Fundamental: fund,
		Risk:        risk,
		Status:      Pending,
		score:       total,
	}
	if price > 0 {
		d.Price = ptr(price)
	}

	if kind == Buy && price > 0 && portfolioValue > 0 {
		sizing, err := SizePosition(symbol, price, portfolioValue, e.RiskPerTrade, e.StopLoss, e.MaxPositionFraction)
		if err != nil {
			log.Printf("warning: sizing %s failed: %v", symbol, err)
		} else {
			d.Sizing = sizing
			d.Quantity = ptr(float64(sizing.RecommendedShares))
		}
	}

	d.Reasoning = e.reasoning(ctx, d)
	return d, nil
}

// reasoning asks the configured reasoner for a short rationale, falling back
// to a templated sentence so a decision never fails on reasoning alone.
func (e *Engine) reasoning(ctx context.Context, d *Decision) string {
	if e.Reasoner != nil {
		text, err := e.Reasoner.Reason(ctx, BuildReasoningPrompt(d))
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			log.Printf("warning: reasoning for %s failed: %v", d.Symbol, err)
		}
	}
	return fallbackReasoning(d.Type, d.Confidence)
}

// BuildReasoningPrompt assembles the structured prompt sent to the reasoning
// collaborator: the recommendation, its confidence, and every populated
// signal label.
func BuildReasoningPrompt(d *Decision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an investment analyst. Explain in 2-3 sentences why %s is a %s at %.0f%% confidence, given these signals:\n", d.Symbol, d.Type, d.Confidence*100)
	if t := d.Technical; t != nil {
		fmt.Fprintf(&b, "Technical score: %.2f\n", t.Score)
		if t.MATrend != nil {
			fmt.Fprintf(&b, "- moving average trend: %s\n", t.MATrend)
		}
		if t.LongTermTrend != nil {
			fmt.Fprintf(&b, "- long term trend: %s\n", t.LongTermTrend)
		}
		if t.RSISignal != nil {
			fmt.Fprintf(&b, "- RSI: %s", t.RSISignal)
			if t.RSIValue != nil {
				fmt.Fprintf(&b, " (%.1f)", *t.RSIValue)
			}
			b.WriteString("\n")
		}
		if t.MACDSignal != nil {
			fmt.Fprintf(&b, "- MACD: %s\n", t.MACDSignal)
		}
		if t.BBSignal != nil {
			fmt.Fprintf(&b, "- Bollinger position: %s\n", t.BBSignal)
		}
	}
	if f := d.Fundamental; f != nil {
		fmt.Fprintf(&b, "Fundamental score: %.2f\n", f.Score)
		if f.PESignal != nil {
			fmt.Fprintf(&b, "- valuation: %s\n", f.PESignal)
		}
		if f.GrowthSignal != nil {
			fmt.Fprintf(&b, "- growth: %s\n", f.GrowthSignal)
		}
		if f.ProfitabilitySignal != nil {
			fmt.Fprintf(&b, "- profitability: %s\n", f.ProfitabilitySignal)
		}
		if f.FinancialHealth != nil {
			fmt.Fprintf(&b, "- financial health: %s\n", f.FinancialHealth)
		}
	}
	if r := d.Risk; r != nil {
		if r.Volatility != nil {
			fmt.Fprintf(&b, "- volatility: %s\n", r.Volatility)
		}
		if r.Beta != nil {
			fmt.Fprintf(&b, "- beta: %s\n", r.Beta)
		}
	}
	return b.String()
}

func fallbackReasoning(kind DecisionType, confidence float64) string {
	return fmt.Sprintf("Recommendation: %s with %.1f%% confidence based on technical and fundamental analysis.", kind, confidence*100)
}

// Best returns the decision with the highest combined score, breaking ties by
// the lexically smallest symbol so the reduction is deterministic. Nil for an
// empty input.
func Best(decisions []*Decision) *Decision {
	var best *Decision
	for _, d := range decisions {
		if best == nil || d.score > best.score || (d.score == best.score && d.Symbol < best.Symbol) {
			best = d
		}
	}
	return best
}

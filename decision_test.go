package advisor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

type stubReasoner struct {
	text string
	err  error
}

func (s stubReasoner) Reason(context.Context, string) (string, error) { return s.text, s.err }

func TestDecideRequiresTechnicals(t *testing.T) {
	engine := NewEngine(nil)
	_, err := engine.Decide(context.Background(), "AAPL", nil, nil, nil, 100, 100000)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("got %v, want ErrDataUnavailable", err)
	}
}

func TestDecideBuyFromTechnicalsAlone(t *testing.T) {
	// A perfect technical score with no fundamentals lands exactly on the buy
	// threshold: 1.0*0.5 + 0.5*0.3 = 0.65.
	engine := NewEngine(nil)
	d, err := engine.Decide(context.Background(), "AAPL", &TechnicalSignals{Score: 1}, nil, nil, 100, 100000)
	if err != nil {
		t.Fatal(err)
	}
	if d.Type != Buy {
		t.Errorf("decision = %s, want BUY", d.Type)
	}
	if math.Abs(d.Confidence-0.65) > 1e-9 {
		t.Errorf("confidence = %g, want 0.65", d.Confidence)
	}
	if math.Abs(d.Score()-0.65) > 1e-9 {
		t.Errorf("score = %g, want 0.65", d.Score())
	}
	if d.Status != Pending {
		t.Errorf("status = %s, want PENDING", d.Status)
	}
	if d.Price == nil || *d.Price != 100 {
		t.Errorf("price = %v, want 100", d.Price)
	}
	// Default risk parameters: 5% risk, 5% stop, 20% cap on a 100k portfolio.
	if d.Sizing == nil || d.Sizing.RecommendedShares != 200 {
		t.Fatalf("sizing = %+v, want 200 shares", d.Sizing)
	}
	if d.Quantity == nil || *d.Quantity != 200 {
		t.Errorf("quantity = %v, want 200", d.Quantity)
	}
}

func TestDecideSell(t *testing.T) {
	engine := NewEngine(nil)
	tech := &TechnicalSignals{Score: 0.2}
	fund := &FundamentalSignals{Score: 0.3}
	d, err := engine.Decide(context.Background(), "AAPL", tech, fund, nil, 100, 100000)
	if err != nil {
		t.Fatal(err)
	}
	// total = 0.2*0.5 + 0.3*0.3 = 0.19.
	if d.Type != Sell {
		t.Errorf("decision = %s, want SELL", d.Type)
	}
	if math.Abs(d.Confidence-0.81) > 1e-9 {
		t.Errorf("confidence = %g, want 0.81", d.Confidence)
	}
	if d.Sizing != nil {
		t.Error("a SELL should not carry a sizing")
	}
}

func TestDecideHold(t *testing.T) {
	engine := NewEngine(nil)
	tech := &TechnicalSignals{Score: 0.5}
	fund := &FundamentalSignals{Score: 0.5}
	d, err := engine.Decide(context.Background(), "AAPL", tech, fund, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	// total = 0.4, confidence = 1 - 2*|0.4-0.5| = 0.8.
	if d.Type != Hold {
		t.Errorf("decision = %s, want HOLD", d.Type)
	}
	if math.Abs(d.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %g, want 0.8", d.Confidence)
	}
	if d.Price != nil {
		t.Error("unknown price should leave Price nil")
	}
}

func TestDecideConfidenceCap(t *testing.T) {
	engine := NewEngine(nil)
	// total = 0: a SELL with raw confidence 1, capped at 0.95.
	d, err := engine.Decide(context.Background(), "AAPL", &TechnicalSignals{Score: 0}, &FundamentalSignals{Score: 0}, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Type != Sell || d.Confidence != 0.95 {
		t.Errorf("got %s at %g, want SELL at 0.95", d.Type, d.Confidence)
	}
}

func TestDecideHighVolatilityAdjustment(t *testing.T) {
	engine := NewEngine(nil)
	tech := &TechnicalSignals{Score: 1}
	fund := &FundamentalSignals{Score: 1}
	risk := &RiskSignals{Volatility: ptr(VolatilityHigh)}

	// Without the adjustment the score is 0.8, a clear BUY.
	d, err := engine.Decide(context.Background(), "AAPL", tech, fund, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Type != Buy {
		t.Fatalf("without risk: %s, want BUY", d.Type)
	}

	// High volatility shrinks it to 0.64, below the buy threshold.
	d, err = engine.Decide(context.Background(), "AAPL", tech, fund, risk, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Type != Hold {
		t.Errorf("with HIGH volatility: %s, want HOLD", d.Type)
	}
	if math.Abs(d.Score()-0.64) > 1e-9 {
		t.Errorf("adjusted score = %g, want 0.64", d.Score())
	}
}

func TestDecideReasoning(t *testing.T) {
	tech := &TechnicalSignals{Score: 0.5}

	// Without a reasoner, the templated fallback.
	d, err := NewEngine(nil).Decide(context.Background(), "AAPL", tech, nil, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("Recommendation: %s with %.1f%% confidence based on technical and fundamental analysis.", d.Type, d.Confidence*100)
	if d.Reasoning != want {
		t.Errorf("fallback reasoning = %q, want %q", d.Reasoning, want)
	}

	// A working reasoner wins.
	d, err = NewEngine(stubReasoner{text: "  The trend is flat.  "}).Decide(context.Background(), "AAPL", tech, nil, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Reasoning != "The trend is flat." {
		t.Errorf("reasoning = %q, want the trimmed reasoner output", d.Reasoning)
	}

	// A failing reasoner degrades to the fallback, never fails the decision.
	d, err = NewEngine(stubReasoner{err: errors.New("quota exceeded")}).Decide(context.Background(), "AAPL", tech, nil, nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Reasoning != want {
		t.Errorf("reasoning after failure = %q, want the fallback", d.Reasoning)
	}
}

func TestBuildReasoningPrompt(t *testing.T) {
	d := &Decision{
		Symbol:     "AAPL",
		Type:       Buy,
		Confidence: 0.72,
		Technical: &TechnicalSignals{
			MATrend:   ptr(Bullish),
			RSISignal: ptr(Oversold),
			RSIValue:  ptr(25.0),
			Score:     0.9,
		},
		Risk: &RiskSignals{Volatility: ptr(VolatilityLow)},
	}
	prompt := BuildReasoningPrompt(d)
	for _, want := range []string{"AAPL", "BUY", "72% confidence", "BULLISH", "OVERSOLD (25.0)", "volatility: LOW"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	d := &Decision{ID: 1}
	if err := d.MarkExecuted(); err == nil {
		t.Error("executing a pending decision should fail")
	}
	if err := d.Accept(); err != nil {
		t.Fatal(err)
	}
	if err := d.Accept(); err == nil {
		t.Error("accepting twice should fail")
	}
	if err := d.Reject(); err == nil {
		t.Error("rejecting an accepted decision should fail")
	}
	if err := d.MarkExecuted(); err != nil {
		t.Fatal(err)
	}
	if d.Status != Executed {
		t.Errorf("status = %s, want EXECUTED", d.Status)
	}

	r := &Decision{ID: 2}
	if err := r.Reject(); err != nil {
		t.Fatal(err)
	}
	if r.Status != Rejected {
		t.Errorf("status = %s, want REJECTED", r.Status)
	}
}

func TestBest(t *testing.T) {
	if Best(nil) != nil {
		t.Error("Best of nothing should be nil")
	}
	a := &Decision{Symbol: "AAPL", score: 0.6}
	b := &Decision{Symbol: "MSFT", score: 0.7}
	c := &Decision{Symbol: "GOOG", score: 0.7}
	if got := Best([]*Decision{a, b}); got != b {
		t.Errorf("Best = %s, want MSFT", got.Symbol)
	}
	// Ties break on the lexically smallest symbol, whatever the input order.
	if got := Best([]*Decision{b, c}); got != c {
		t.Errorf("Best tie = %s, want GOOG", got.Symbol)
	}
	if got := Best([]*Decision{c, b}); got != c {
		t.Errorf("Best tie = %s, want GOOG", got.Symbol)
	}
}

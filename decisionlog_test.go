package advisor

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/etnz/advisor/date"
)

func TestDecisionMarshalStableOrder(t *testing.T) {
	d := &Decision{
		ID:         1,
		Day:        date.New(2025, 6, 2),
		Symbol:     "AAPL",
		Type:       Buy,
		Confidence: 0.65,
		Reasoning:  "momentum entry",
		score:      0.65,
	}
	got, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	// The exact line is part of the stored-history format: stable field order,
	// absent optionals skipped entirely.
	want := `{"id":1,"date":"2025-06-02","symbol":"AAPL","decision_type":"BUY","confidence":0.65,"score":0.65,"reasoning":"momentum entry","status":"PENDING"}`
	if string(got) != want {
		t.Errorf("marshal:\n got %s\nwant %s", got, want)
	}
}

func TestDecisionRoundTrip(t *testing.T) {
	d := &Decision{
		ID:         7,
		Day:        date.New(2025, 6, 2),
		Symbol:     "MSFT",
		Type:       Sell,
		Confidence: 0.81,
		Reasoning:  "overbought",
		Technical: &TechnicalSignals{
			MATrend:   ptr(Bearish),
			RSISignal: ptr(Overbought),
			RSIValue:  ptr(75.0),
			Score:     0.1,
		},
		Fundamental: &FundamentalSignals{PESignal: ptr(Overvalued), Score: 0.25},
		Risk:        &RiskSignals{Volatility: ptr(VolatilityHigh), Beta: ptr(BetaMarket)},
		Quantity:    ptr(12.0),
		Price:       ptr(410.5),
		Sizing:      &PositionSizing{Symbol: "MSFT", RecommendedShares: 12},
		Status:      Accepted,
		score:       0.19,
	}

	buf, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	// The stored keys are part of the history format.
	for _, key := range []string{`"decision_type":"SELL"`, `"risk_assessment":`} {
		if !bytes.Contains(buf, []byte(key)) {
			t.Errorf("marshal missing %s:\n%s", key, buf)
		}
	}
	var back Decision
	if err := json.Unmarshal(buf, &back); err != nil {
		t.Fatal(err)
	}

	if back.ID != d.ID || back.Symbol != d.Symbol || back.Type != d.Type || back.Status != d.Status {
		t.Errorf("round trip lost identity fields: %+v", back)
	}
	if !back.Day.Equal(d.Day) {
		t.Errorf("day = %s, want %s", back.Day, d.Day)
	}
	// The combined score is not derivable from the other fields, it must
	// survive the trip for Best to stay deterministic.
	if back.Score() != 0.19 {
		t.Errorf("score = %g, want 0.19", back.Score())
	}
	if back.Technical == nil || *back.Technical.RSISignal != Overbought {
		t.Errorf("technical signals lost: %+v", back.Technical)
	}
	if back.Risk == nil || *back.Risk.Volatility != VolatilityHigh {
		t.Errorf("risk signals lost: %+v", back.Risk)
	}
	if back.Quantity == nil || *back.Quantity != 12 {
		t.Errorf("quantity lost: %v", back.Quantity)
	}
	if back.Sizing == nil || back.Sizing.RecommendedShares != 12 {
		t.Errorf("sizing lost: %+v", back.Sizing)
	}
}

func TestDecisionLogAppendAssignsIDs(t *testing.T) {
	log := &DecisionLog{}
	a := &Decision{Symbol: "AAPL"}
	b := &Decision{Symbol: "MSFT"}
	log.Append(a)
	log.Append(b)
	if a.ID != 1 || b.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", a.ID, b.ID)
	}

	// IDs never regress, even after loading a log with gaps.
	c := &Decision{Symbol: "GOOG"}
	log.decisions = append(log.decisions, &Decision{ID: 9})
	log.Append(c)
	if c.ID != 10 {
		t.Errorf("id after gap = %d, want 10", c.ID)
	}
}

func TestDecisionLogGet(t *testing.T) {
	log := &DecisionLog{}
	d := &Decision{Symbol: "AAPL"}
	log.Append(d)

	got, err := log.Get(1)
	if err != nil || got != d {
		t.Errorf("Get(1) = %v, %v", got, err)
	}
	if _, err := log.Get(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(42) = %v, want ErrNotFound", err)
	}
}

func TestDecisionLogRoundTrip(t *testing.T) {
	log := &DecisionLog{}
	log.Append(&Decision{Day: date.New(2025, 6, 2), Symbol: "AAPL", Type: Buy, score: 0.7})
	log.Append(&Decision{Day: date.New(2025, 6, 3), Symbol: "MSFT", Type: Hold, Status: Rejected})

	var buf bytes.Buffer
	if err := log.Save(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadDecisions(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("loaded %d decisions, want 2", loaded.Len())
	}
	first, err := loaded.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if first.Symbol != "AAPL" || first.Score() != 0.7 {
		t.Errorf("first = %s score %g, want AAPL score 0.7", first.Symbol, first.Score())
	}

	pending := loaded.Pending()
	if len(pending) != 1 || pending[0].Symbol != "AAPL" {
		t.Errorf("pending = %v, want only AAPL", pending)
	}
}

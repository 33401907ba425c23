package advisor

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/advisor/date"
)

// MarshalJSON encodes the decision with a stable field order, so the decision
// log stays diffable. The field names are part of the stored-history format.
func (d *Decision) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", d.ID)
	w.Append("date", d.Day)
	w.Append("symbol", d.Symbol)
	w.Append("decision_type", d.Type)
	w.Append("confidence", d.Confidence)
	w.Append("score", d.score)
	w.Optional("reasoning", d.Reasoning)
	w.Optional("technical_signals", d.Technical)
	w.Optional("fundamental_signals", d.Fundamental)
	w.Optional("risk_assessment", d.Risk)
	w.Optional("recommended_quantity", d.Quantity)
	w.Optional("recommended_price", d.Price)
	w.Optional("sizing", d.Sizing)
	w.Append("status", d.Status)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes a decision produced by MarshalJSON.
func (d *Decision) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          int                 `json:"id"`
		Day         date.Date           `json:"date"`
		Symbol      string              `json:"symbol"`
		Type        DecisionType        `json:"decision_type"`
		Confidence  float64             `json:"confidence"`
		Score       float64             `json:"score"`
		Reasoning   string              `json:"reasoning"`
		Technical   *TechnicalSignals   `json:"technical_signals"`
		Fundamental *FundamentalSignals `json:"fundamental_signals"`
		Risk        *RiskSignals        `json:"risk_assessment"`
		Quantity    *float64            `json:"recommended_quantity"`
		Price       *float64            `json:"recommended_price"`
		Sizing      *PositionSizing     `json:"sizing"`
		Status      DecisionStatus      `json:"status"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Decision{
		ID:          raw.ID,
		Day:         raw.Day,
		Symbol:      raw.Symbol,
		Type:        raw.Type,
		Confidence:  raw.Confidence,
		Reasoning:   raw.Reasoning,
		Technical:   raw.Technical,
		Fundamental: raw.Fundamental,
		Risk:        raw.Risk,
		Quantity:    raw.Quantity,
		Price:       raw.Price,
		Sizing:      raw.Sizing,
		Status:      raw.Status,
		score:       raw.Score,
	}
	return nil
}

// DecisionLog is the append-only journal of decisions, persisted as JSONL.
// It assigns sequential IDs so transactions can reference the decision that
// triggered them.
type DecisionLog struct {
	decisions []*Decision
}

// LoadDecisions reads a JSONL decision log.
func LoadDecisions(r io.Reader) (*DecisionLog, error) {
	log := &DecisionLog{}
	scanner := bufio.NewScanner(r)
	// Decisions with full signal sets and reasoning can outgrow the default
	// scanner buffer.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		d := &Decision{}
		if err := json.Unmarshal(line, d); err != nil {
			return nil, fmt.Errorf("decoding decision line %q: %w", string(line), err)
		}
		log.decisions = append(log.decisions, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading decision log: %w", err)
	}
	return log, nil
}

// Save persists the log as JSONL, one decision per line in ID order.
func (l *DecisionLog) Save(w io.Writer) error {
	for _, d := range l.decisions {
		buf, err := json.Marshal(d)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(buf, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Append assigns the next sequential ID to the decision and records it.
func (l *DecisionLog) Append(d *Decision) {
	d.ID = l.nextID()
	l.decisions = append(l.decisions, d)
}

func (l *DecisionLog) nextID() int {
	max := 0
	for _, d := range l.decisions {
		if d.ID > max {
			max = d.ID
		}
	}
	return max + 1
}

// Get returns the decision with the given ID, or ErrNotFound.
func (l *DecisionLog) Get(id int) (*Decision, error) {
	for _, d := range l.decisions {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("decision %d: %w", id, ErrNotFound)
}

// Len returns the number of logged decisions.
func (l *DecisionLog) Len() int { return len(l.decisions) }

// Decisions returns the logged decisions in insertion order.
func (l *DecisionLog) Decisions() []*Decision { return l.decisions }

// Pending returns the decisions still awaiting a caller verdict.
func (l *DecisionLog) Pending() []*Decision {
	var pending []*Decision
	for _, d := range l.decisions {
		if d.Status == Pending {
			pending = append(pending, d)
		}
	}
	return pending
}

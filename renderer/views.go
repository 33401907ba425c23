package renderer

import (
	"fmt"
	"sort"

	"github.com/etnz/advisor"
)

// PositionsView is the pre-formatted portfolio for positions.md.
type PositionsView struct {
	Cash  string
	Total string
	PnL   string
	Rows  []PositionRow
}

// PositionRow is one open position.
type PositionRow struct {
	Symbol string
	Shares string
	Value  string
	PnL    string
	Return string
}

// NewPositionsView builds the view, positions sorted by symbol.
func NewPositionsView(p *advisor.Portfolio) *PositionsView {
	v := &PositionsView{
		Cash:  p.Cash().String(),
		Total: p.TotalValue().String(),
		PnL:   p.PnL().SignedString(),
	}
	positions := p.Positions()
	symbols := make([]string, 0, len(positions))
	for symbol := range positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		pos := positions[symbol]
		v.Rows = append(v.Rows, PositionRow{
			Symbol: symbol,
			Shares: pos.Shares.String(),
			Value:  pos.Value().String(),
			PnL:    pos.PnL().SignedString(),
			Return: pos.ReturnPercent().SignedString(),
		})
	}
	return v
}

// DecisionView is the pre-formatted recommendation for decision.md.
type DecisionView struct {
	Symbol     string
	Type       string
	Confidence string
	Status     string
	Reasoning  string
	Signals    []SignalRow
	Sizing     *SizingView
}

// SignalRow is one labeled signal.
type SignalRow struct {
	Name  string
	Value string
}

// NewDecisionView builds the view, listing only populated signals.
func NewDecisionView(d *advisor.Decision) *DecisionView {
	v := &DecisionView{
		Symbol:     d.Symbol,
		Type:       d.Type.String(),
		Confidence: fmt.Sprintf("%.0f%%", d.Confidence*100),
		Status:     d.Status.String(),
		Reasoning:  d.Reasoning,
	}
	if t := d.Technical; t != nil {
		v.Signals = append(v.Signals, SignalRow{"technical score", fmt.Sprintf("%.2f", t.Score)})
		if t.MATrend != nil {
			v.Signals = append(v.Signals, SignalRow{"moving average trend", t.MATrend.String()})
		}
		if t.LongTermTrend != nil {
			v.Signals = append(v.Signals, SignalRow{"long term trend", t.LongTermTrend.String()})
		}
		if t.RSISignal != nil {
			value := t.RSISignal.String()
			if t.RSIValue != nil {
				value = fmt.Sprintf("%s (%.1f)", value, *t.RSIValue)
			}
			v.Signals = append(v.Signals, SignalRow{"RSI", value})
		}
		if t.MACDSignal != nil {
			v.Signals = append(v.Signals, SignalRow{"MACD", t.MACDSignal.String()})
		}
		if t.BBSignal != nil {
			v.Signals = append(v.Signals, SignalRow{"Bollinger position", t.BBSignal.String()})
		}
	}
	if f := d.Fundamental; f != nil {
		v.Signals = append(v.Signals, SignalRow{"fundamental score", fmt.Sprintf("%.2f", f.Score)})
		if f.PESignal != nil {
			v.Signals = append(v.Signals, SignalRow{"valuation", f.PESignal.String()})
		}
		if f.GrowthSignal != nil {
			v.Signals = append(v.Signals, SignalRow{"growth", f.GrowthSignal.String()})
		}
		if f.ProfitabilitySignal != nil {
			v.Signals = append(v.Signals, SignalRow{"profitability", f.ProfitabilitySignal.String()})
		}
		if f.FinancialHealth != nil {
			v.Signals = append(v.Signals, SignalRow{"financial health", f.FinancialHealth.String()})
		}
	}
	if r := d.Risk; r != nil {
		if r.Volatility != nil {
			v.Signals = append(v.Signals, SignalRow{"volatility", r.Volatility.String()})
		}
		if r.Beta != nil {
			v.Signals = append(v.Signals, SignalRow{"beta", r.Beta.String()})
		}
	}
	if d.Sizing != nil {
		v.Sizing = NewSizingView(d.Sizing, "")
	}
	return v
}

// DecisionsView is the pre-formatted decision log for decisions.md.
type DecisionsView struct {
	Rows []DecisionRow
}

// DecisionRow is one logged decision.
type DecisionRow struct {
	ID         string
	Date       string
	Symbol     string
	Type       string
	Confidence string
	Status     string
}

// NewDecisionsView builds the view in log order.
func NewDecisionsView(list []*advisor.Decision) *DecisionsView {
	v := &DecisionsView{}
	for _, d := range list {
		v.Rows = append(v.Rows, DecisionRow{
			ID:         fmt.Sprintf("%d", d.ID),
			Date:       d.Day.String(),
			Symbol:     d.Symbol,
			Type:       d.Type.String(),
			Confidence: fmt.Sprintf("%.0f%%", d.Confidence*100),
			Status:     d.Status.String(),
		})
	}
	return v
}

// SizingView is the pre-formatted sizing for sizing.md.
type SizingView struct {
	Symbol      string
	Shares      string
	Price       string
	Value       string
	Stop        string
	MaxLoss     string
	RiskPercent string
}

// NewSizingView builds the view. currency may be empty for plain numbers.
func NewSizingView(s *advisor.PositionSizing, currency string) *SizingView {
	return &SizingView{
		Symbol:      s.Symbol,
		Shares:      fmt.Sprintf("%d", s.RecommendedShares),
		Price:       amount(s.CurrentPrice, currency),
		Value:       amount(s.PositionValue, currency),
		Stop:        amount(s.StopLossPrice, currency),
		MaxLoss:     amount(s.MaxLoss, currency),
		RiskPercent: fmt.Sprintf("%.1f%%", s.RiskPercent),
	}
}

// RiskView is the pre-formatted risk report for risk.md.
type RiskView struct {
	VaR      *VaRView
	Sharpe   string
	Sortino  string
	Drawdown *DrawdownView
}

// VaRView is the pre-formatted Value-at-Risk line.
type VaRView struct {
	Amount     string
	Percent    string
	Confidence string
	Horizon    string
}

// DrawdownView is the pre-formatted drawdown line.
type DrawdownView struct {
	Max     string
	Current string
}

// NewRiskView builds the view; uncomputable metrics render as "n/a".
func NewRiskView(s *advisor.RiskSummary, currency string) *RiskView {
	v := &RiskView{Sharpe: "n/a", Sortino: "n/a"}
	if s.ValueAtRisk != nil {
		v.VaR = &VaRView{
			Amount:     amount(s.ValueAtRisk.Amount, currency),
			Percent:    fmt.Sprintf("%.2f%%", s.ValueAtRisk.Percent),
			Confidence: fmt.Sprintf("%.0f%%", s.ValueAtRisk.Confidence*100),
			Horizon:    fmt.Sprintf("%d", s.ValueAtRisk.HorizonDays),
		}
	}
	if s.Sharpe != nil {
		v.Sharpe = fmt.Sprintf("%.2f", *s.Sharpe)
	}
	if s.Sortino != nil {
		v.Sortino = fmt.Sprintf("%.2f", *s.Sortino)
	}
	if s.MaxDrawdown != nil {
		v.Drawdown = &DrawdownView{
			Max:     fmt.Sprintf("%.2f%%", s.MaxDrawdown.MaxPercent),
			Current: fmt.Sprintf("%.2f%%", s.MaxDrawdown.CurrentPercent),
		}
	}
	return v
}

// PositionRisksView is the pre-formatted per-position assessment for
// position_risks.md.
type PositionRisksView struct {
	Rows []PositionRiskRow
}

// PositionRiskRow is one assessed position.
type PositionRiskRow struct {
	Symbol     string
	PnL        string
	Return     string
	Volatility string
	Beta       string
	Level      string
}

// NewPositionRisksView builds the view; unknown figures render as "n/a".
func NewPositionRisksView(list []*advisor.PositionRisk, currency string) *PositionRisksView {
	v := &PositionRisksView{}
	for _, r := range list {
		row := PositionRiskRow{
			Symbol:     r.Symbol,
			PnL:        amount(r.PnL, currency),
			Return:     fmt.Sprintf("%+.2f%%", r.PnLPercent),
			Volatility: "n/a",
			Beta:       "n/a",
			Level:      r.Level.String(),
		}
		if r.Volatility != nil {
			row.Volatility = fmt.Sprintf("%.0f%%", *r.Volatility*100)
		}
		if r.Beta != nil {
			row.Beta = fmt.Sprintf("%.2f", *r.Beta)
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

// CorrelationsView is the pre-formatted matrix for correlations.md.
type CorrelationsView struct {
	Symbols []string
	Rows    []CorrelationRow
}

// CorrelationRow is one matrix line.
type CorrelationRow struct {
	Symbol string
	Values []string
}

// NewCorrelationsView builds the view with symbols in lexical order.
func NewCorrelationsView(matrix map[string]map[string]float64) *CorrelationsView {
	v := &CorrelationsView{}
	for symbol := range matrix {
		v.Symbols = append(v.Symbols, symbol)
	}
	sort.Strings(v.Symbols)
	for _, row := range v.Symbols {
		r := CorrelationRow{Symbol: row}
		for _, col := range v.Symbols {
			r.Values = append(r.Values, fmt.Sprintf("%.2f", matrix[row][col]))
		}
		v.Rows = append(v.Rows, r)
	}
	return v
}

// amount formats a monetary value, with its currency code when known.
func amount(value float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", value)
	}
	return advisor.M(value, currency).String()
}

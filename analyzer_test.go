package advisor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/etnz/advisor/date"
)

// fakeProvider serves canned series and fundamentals keyed by symbol.
type fakeProvider struct {
	series       map[string]*PriceSeries
	fundamentals map[string]*FundamentalSet
}

func (p *fakeProvider) Daily(_ context.Context, symbol string, _ date.Range) (*PriceSeries, error) {
	s, ok := p.series[symbol]
	if !ok {
		return nil, fmt.Errorf("daily %s: %w", symbol, ErrNotFound)
	}
	return s, nil
}

func (p *fakeProvider) Spot(_ context.Context, symbol string) (float64, error) {
	s, ok := p.series[symbol]
	if !ok {
		return 0, fmt.Errorf("spot %s: %w", symbol, ErrNotFound)
	}
	last, _ := s.Last()
	return last.Close, nil
}

func (p *fakeProvider) Fundamentals(_ context.Context, symbol string) (*FundamentalSet, error) {
	f, ok := p.fundamentals[symbol]
	if !ok {
		return nil, fmt.Errorf("fundamentals %s: %w", symbol, ErrNotFound)
	}
	return f, nil
}

// marketSeries builds a year of daily candles following a smooth drift with a
// small oscillation, enough history for every indicator.
func marketSeries(symbol string, start, drift float64) *PriceSeries {
	s := NewPriceSeries(symbol)
	day := date.New(2024, 6, 1)
	price := start
	for i := 0; i < 260; i++ {
		price += drift
		wobble := math.Sin(float64(i)/5) * start * 0.01
		close := price + wobble
		s.Append(Candle{Day: day.Add(i), Open: close, High: close, Low: close, Close: close, Volume: 10000})
	}
	return s
}

func testAnalyzer() (*Analyzer, *fakeProvider) {
	provider := &fakeProvider{
		series: map[string]*PriceSeries{
			"AAPL":  marketSeries("AAPL", 100, 0.2),
			"MSFT":  marketSeries("MSFT", 300, -0.3),
			"^GSPC": marketSeries("^GSPC", 5000, 2),
		},
		fundamentals: map[string]*FundamentalSet{
			"AAPL": {
				Symbol:         "AAPL",
				PERatio:        ptr(12.0),
				EarningsGrowth: ptr(0.20),
				RevenueGrowth:  ptr(0.12),
				ProfitMargin:   ptr(0.25),
				ReturnOnEquity: ptr(0.30),
				DebtToEquity:   ptr(0.40),
				CurrentRatio:   ptr(1.8),
			},
		},
	}
	return NewAnalyzer(provider, nil, DefaultSettings()), provider
}

func TestAnalyze(t *testing.T) {
	a, _ := testAnalyzer()
	d, err := a.Analyze(context.Background(), "AAPL", 100000)
	if err != nil {
		t.Fatal(err)
	}
	if d.Symbol != "AAPL" {
		t.Errorf("symbol = %s", d.Symbol)
	}
	if d.Technical == nil {
		t.Fatal("want technical signals")
	}
	if d.Technical.MATrend == nil || d.Technical.RSISignal == nil {
		t.Error("a full year of history should populate every technical dimension")
	}
	if d.Fundamental == nil {
		t.Fatal("want fundamental signals")
	}
	if d.Risk == nil || d.Risk.Volatility == nil || d.Risk.Beta == nil {
		t.Errorf("risk = %+v, want volatility and beta labels", d.Risk)
	}
	if d.Price == nil || *d.Price <= 0 {
		t.Errorf("price = %v, want the last close", d.Price)
	}
	if d.Reasoning == "" {
		t.Error("want a reasoning, at least the fallback")
	}
}

func TestAnalyzeDegradesWithoutFundamentals(t *testing.T) {
	a, _ := testAnalyzer()
	// MSFT has price history but no fundamentals: the analysis proceeds.
	d, err := a.Analyze(context.Background(), "MSFT", 0)
	if err != nil {
		t.Fatal(err)
	}
	if d.Fundamental != nil {
		t.Error("missing fundamentals should leave the signals nil")
	}
}

func TestAnalyzeUnknownSymbol(t *testing.T) {
	a, _ := testAnalyzer()
	if _, err := a.Analyze(context.Background(), "NOPE", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestAnalyzeAll(t *testing.T) {
	a, _ := testAnalyzer()
	decisions, err := a.AnalyzeAll(context.Background(), []string{"MSFT", "NOPE", "AAPL"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	// The unknown symbol is skipped, the rest come back sorted by score.
	if len(decisions) != 2 {
		t.Fatalf("got %d decisions, want 2", len(decisions))
	}
	if decisions[0].Score() < decisions[1].Score() {
		t.Error("decisions should be sorted by descending score")
	}

	if _, err := a.AnalyzeAll(context.Background(), []string{"NOPE", "NADA"}, 0); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("all failures: got %v, want ErrDataUnavailable", err)
	}
	if got, err := a.AnalyzeAll(context.Background(), nil, 0); got != nil || err != nil {
		t.Errorf("no symbols: got %v, %v", got, err)
	}
}

func TestReturnSeriesOf(t *testing.T) {
	a, _ := testAnalyzer()
	p := NewPortfolio("USD")
	day := date.New(2025, 6, 2)
	if err := p.Deposit(day, 100000, ""); err != nil {
		t.Fatal(err)
	}
	if err := p.Buy(day, "AAPL", 100, 100, "", 0); err != nil {
		t.Fatal(err)
	}
	if err := p.Buy(day, "MSFT", 10, 300, "", 0); err != nil {
		t.Fatal(err)
	}

	series := a.ReturnSeriesOf(context.Background(), p)
	if len(series) != 2 {
		t.Fatalf("got %d series, want 2", len(series))
	}
	// Sorted by symbol, weighted by position share of total value.
	if series[0].Symbol != "AAPL" || series[1].Symbol != "MSFT" {
		t.Errorf("order = %s, %s", series[0].Symbol, series[1].Symbol)
	}
	if math.Abs(series[0].Weight-0.1) > 1e-9 {
		t.Errorf("AAPL weight = %g, want 0.1", series[0].Weight)
	}
	if len(series[0].Returns) == 0 {
		t.Error("want returns")
	}
}

func TestPortfolioRisk(t *testing.T) {
	a, _ := testAnalyzer()
	p := NewPortfolio("USD")
	day := date.New(2025, 6, 2)
	if err := p.Deposit(day, 100000, ""); err != nil {
		t.Fatal(err)
	}
	if err := p.Buy(day, "AAPL", 100, 100, "", 0); err != nil {
		t.Fatal(err)
	}

	s := a.PortfolioRisk(context.Background(), p)
	if s.ValueAtRisk == nil {
		t.Fatal("want a VaR from a year of history")
	}
	if s.ValueAtRisk.Confidence != DefaultVaRConfidence {
		t.Errorf("confidence = %g, want the settings default", s.ValueAtRisk.Confidence)
	}
	if s.MaxDrawdown == nil {
		t.Error("want a drawdown")
	}
}

func TestPositionRisks(t *testing.T) {
	a, _ := testAnalyzer()
	p := NewPortfolio("USD")
	day := date.New(2025, 6, 2)
	if err := p.Deposit(day, 100000, ""); err != nil {
		t.Fatal(err)
	}
	if err := p.Buy(day, "AAPL", 100, 100, "", 0); err != nil {
		t.Fatal(err)
	}
	if err := p.Buy(day, "ZZZZ", 1, 10, "", 0); err != nil {
		t.Fatal(err)
	}

	risks := a.PositionRisks(context.Background(), p)
	if len(risks) != 2 {
		t.Fatalf("got %d assessments, want 2", len(risks))
	}
	if risks[0].Symbol != "AAPL" || risks[1].Symbol != "ZZZZ" {
		t.Errorf("order = %s, %s, want sorted by symbol", risks[0].Symbol, risks[1].Symbol)
	}
	if risks[0].Volatility == nil || risks[0].Beta == nil {
		t.Errorf("AAPL = %+v, want volatility and beta from a year of history", risks[0])
	}
	// The symbol without history is still graded, with unknown figures.
	if risks[1].Volatility != nil || risks[1].Beta != nil || risks[1].Level != RiskLow {
		t.Errorf("ZZZZ = %+v, want unknown volatility graded LOW", risks[1])
	}
}

func TestCorrelations(t *testing.T) {
	a, _ := testAnalyzer()
	matrix, err := a.Correlations(context.Background(), []string{"AAPL", "MSFT", "NOPE"})
	if err != nil {
		t.Fatal(err)
	}
	if len(matrix) != 2 {
		t.Fatalf("matrix has %d symbols, want 2", len(matrix))
	}
	if !almost(matrix["AAPL"]["AAPL"], 1) {
		t.Error("diagonal should be 1")
	}
	if matrix["AAPL"]["MSFT"] != matrix["MSFT"]["AAPL"] {
		t.Error("matrix should be symmetric")
	}
}

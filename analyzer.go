package advisor

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/etnz/advisor/date"
)

// historyDays is the price history window used for analysis, one year of
// calendar days.
const historyDays = 365

// Analyzer runs the full decision pipeline for symbols: fetch market data,
// compute indicators, score, and decide. It degrades per input: missing
// fundamentals or benchmark history shrink the analysis, only missing price
// history fails it.
type Analyzer struct {
	Provider Provider
	Engine   *Engine
	Settings Settings
}

// NewAnalyzer wires an analyzer from a market-data provider and settings.
func NewAnalyzer(provider Provider, reasoner Reasoner, settings Settings) *Analyzer {
	engine := NewEngine(reasoner)
	engine.RiskPerTrade = settings.RiskPerTrade
	engine.StopLoss = settings.StopLoss
	engine.MaxPositionFraction = settings.MaxPositionFraction
	return &Analyzer{Provider: provider, Engine: engine, Settings: settings}
}

// analysisRange is the last year of calendar days.
func analysisRange() date.Range {
	today := date.Today()
	return date.NewRange(today.Add(-historyDays), today)
}

// Analyze runs the pipeline for one symbol. portfolioValue feeds the sizing
// of BUY decisions; pass 0 to skip sizing.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, portfolioValue float64) (*Decision, error) {
	series, err := a.Provider.Daily(ctx, symbol, analysisRange())
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	set, err := ComputeIndicators(series)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	tech := ScoreTechnical(set)

	var fund *FundamentalSignals
	if fs, err := a.Provider.Fundamentals(ctx, symbol); err != nil {
		log.Printf("warning: no fundamentals for %s: %v", symbol, err)
	} else {
		fund = ScoreFundamentals(fs)
	}

	risk := a.assessRisk(ctx, symbol, series)
	return a.Engine.Decide(ctx, symbol, tech, fund, risk, set.CurrentPrice, portfolioValue)
}

// assessRisk labels volatility and beta for a series, best effort.
func (a *Analyzer) assessRisk(ctx context.Context, symbol string, series *PriceSeries) *RiskSignals {
	returns := series.Returns()
	bench, err := a.Provider.Daily(ctx, a.Settings.Benchmark, analysisRange())
	if err != nil {
		log.Printf("warning: no benchmark %s history for %s: %v", a.Settings.Benchmark, symbol, err)
		return ScoreRisk(Volatility(returns), nil)
	}
	return AssessRisk(returns, bench.Returns())
}

// AnalyzeAll runs the pipeline for several symbols concurrently and returns
// the successful decisions sorted by descending score. Symbols that fail are
// logged and skipped; the call only errors when every symbol failed.
func (a *Analyzer) AnalyzeAll(ctx context.Context, symbols []string, portfolioValue float64) ([]*Decision, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	decisions := make([]*Decision, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := a.Analyze(ctx, symbol, portfolioValue)
			if err != nil {
				log.Printf("warning: skipping %s: %v", symbol, err)
				return
			}
			decisions[i] = d
		}()
	}
	wg.Wait()

	kept := decisions[:0]
	for _, d := range decisions {
		if d != nil {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("analyze: no symbol could be analyzed: %w", ErrDataUnavailable)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].Symbol < kept[j].Symbol
	})
	return kept, nil
}

// ReturnSeriesOf builds the weighted return series of the open positions of a
// portfolio. Positions whose history cannot be fetched are skipped with a
// warning.
func (a *Analyzer) ReturnSeriesOf(ctx context.Context, p *Portfolio) []ReturnSeries {
	weights := p.Weights()
	symbols := make([]string, 0, len(weights))
	for symbol := range weights {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var series []ReturnSeries
	for _, symbol := range symbols {
		daily, err := a.Provider.Daily(ctx, symbol, analysisRange())
		if err != nil {
			log.Printf("warning: no history for %s, excluded from risk: %v", symbol, err)
			continue
		}
		series = append(series, ReturnSeries{
			Symbol:  symbol,
			Weight:  weights[symbol],
			Returns: daily.Returns(),
		})
	}
	return series
}

// PortfolioRisk computes the risk summary of a portfolio's open positions.
func (a *Analyzer) PortfolioRisk(ctx context.Context, p *Portfolio) *RiskSummary {
	series := a.ReturnSeriesOf(ctx, p)
	return Summarize(series, p.TotalValue().AsFloat(), a.Settings.VaRConfidence, a.Settings.RiskFreeRate, a.Settings.VaRHorizonDays)
}

// PositionRisks assesses each open position of a portfolio, sorted by symbol.
// Positions whose history cannot be fetched are still graded, with unknown
// volatility and beta.
func (a *Analyzer) PositionRisks(ctx context.Context, p *Portfolio) []*PositionRisk {
	var benchReturns []float64
	if bench, err := a.Provider.Daily(ctx, a.Settings.Benchmark, analysisRange()); err != nil {
		log.Printf("warning: no benchmark %s history: %v", a.Settings.Benchmark, err)
	} else {
		benchReturns = bench.Returns()
	}

	positions := p.Positions()
	symbols := make([]string, 0, len(positions))
	for symbol := range positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	risks := make([]*PositionRisk, 0, len(symbols))
	for _, symbol := range symbols {
		var returns []float64
		if daily, err := a.Provider.Daily(ctx, symbol, analysisRange()); err != nil {
			log.Printf("warning: no history for %s, volatility unknown: %v", symbol, err)
		} else {
			returns = daily.Returns()
		}
		risks = append(risks, AssessPositionRisk(positions[symbol], returns, benchReturns))
	}
	return risks
}

// Correlations computes the pairwise correlation matrix of symbols.
func (a *Analyzer) Correlations(ctx context.Context, symbols []string) (map[string]map[string]float64, error) {
	var series []ReturnSeries
	for _, symbol := range symbols {
		daily, err := a.Provider.Daily(ctx, symbol, analysisRange())
		if err != nil {
			log.Printf("warning: no history for %s, excluded from correlation: %v", symbol, err)
			continue
		}
		series = append(series, ReturnSeries{Symbol: symbol, Returns: daily.Returns()})
	}
	return CorrelationMatrix(series)
}

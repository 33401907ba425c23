package advisor

import (
	"fmt"
	"math"
	"slices"
)

// tradingDays is the annualization base for daily return statistics.
const tradingDays = 252

// minBetaObservations is the minimum number of aligned return pairs required
// before a beta estimate is considered meaningful.
const minBetaObservations = 30

// ReturnSeries is the daily return series of one position, weighted by its
// share of the portfolio total value. Weights need not sum to 1 when cash is
// held.
type ReturnSeries struct {
	Symbol  string
	Weight  float64
	Returns []float64
}

// ValueAtRisk is the potential loss of a portfolio over a horizon at a given
// confidence level, estimated with the historical method.
type ValueAtRisk struct {
	Amount      float64 `json:"var_amount"`
	Percent     float64 `json:"var_percent"`
	Confidence  float64 `json:"confidence_level"`
	HorizonDays int     `json:"time_horizon_days"`
}

// Drawdown describes the worst peak-to-trough loss of a return series. Peak
// and Trough are indexes into the series of cumulative values.
type Drawdown struct {
	MaxPercent     float64 `json:"max_drawdown_percent"`
	Peak           int     `json:"peak"`
	Trough         int     `json:"trough"`
	CurrentPercent float64 `json:"current_drawdown_percent"`
}

// RiskSummary aggregates the portfolio level risk metrics. Nil fields are
// metrics that could not be computed from the available history; a summary is
// always best effort, never all or nothing.
type RiskSummary struct {
	ValueAtRisk *ValueAtRisk `json:"value_at_risk,omitempty"`
	Sharpe      *float64     `json:"sharpe_ratio"`
	Sortino     *float64     `json:"sortino_ratio"`
	MaxDrawdown *Drawdown    `json:"max_drawdown,omitempty"`
}

// mean of a non-empty slice.
func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the standard deviation with Bessel's correction (n-1).
// It returns NaN for fewer than 2 observations.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// percentile computes the p-th percentile (0..100) of a non-empty slice with
// linear interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// sampleCovariance of two equal-length slices, with Bessel's correction.
func sampleCovariance(x, y []float64) float64 {
	mx, my := mean(x), mean(y)
	sum := 0.0
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x)-1)
}

// pearson computes the Pearson correlation coefficient of two equal-length
// slices. It returns NaN when either series has zero variance.
func pearson(x, y []float64) float64 {
	sx, sy := sampleStd(x), sampleStd(y)
	if sx == 0 || sy == 0 || math.IsNaN(sx) || math.IsNaN(sy) {
		return math.NaN()
	}
	return sampleCovariance(x, y) / (sx * sy)
}

// alignTail truncates both slices to their common trailing length, keeping
// the most recent observations.
func alignTail(x, y []float64) ([]float64, []float64) {
	n := min(len(x), len(y))
	return x[len(x)-n:], y[len(y)-n:]
}

// PortfolioReturns combines weighted per-position return series into a single
// portfolio return series by index-aligned summation over the common trailing
// window.
func PortfolioReturns(series []ReturnSeries) []float64 {
	n := 0
	for _, s := range series {
		if len(s.Returns) == 0 {
			continue
		}
		if n == 0 || len(s.Returns) < n {
			n = len(s.Returns)
		}
	}
	if n == 0 {
		return nil
	}
	combined := make([]float64, n)
	for _, s := range series {
		if len(s.Returns) == 0 {
			continue
		}
		tail := s.Returns[len(s.Returns)-n:]
		for i, r := range tail {
			combined[i] += s.Weight * r
		}
	}
	return combined
}

// HistoricalVaR estimates the Value-at-Risk of the portfolio by taking the
// (1-confidence) percentile of the combined historical return series and
// scaling it by the square root of the horizon. A single observation yields a
// best-effort estimate from that observation; only zero usable data fails.
func HistoricalVaR(series []ReturnSeries, portfolioValue, confidence float64, horizonDays int) (*ValueAtRisk, error) {
	combined := PortfolioReturns(series)
	if len(combined) == 0 {
		return nil, fmt.Errorf("value at risk: %w", ErrInsufficientHistory)
	}
	p := percentile(combined, (1-confidence)*100)
	scaled := p * math.Sqrt(float64(horizonDays))
	return &ValueAtRisk{
		Amount:      portfolioValue * math.Abs(scaled),
		Percent:     math.Abs(scaled) * 100,
		Confidence:  confidence,
		HorizonDays: horizonDays,
	}, nil
}

// SharpeRatio is the annualized risk-adjusted excess return. Nil when there
// are fewer than 2 observations or the excess returns have zero deviation.
func SharpeRatio(returns []float64, riskFreeRate float64) *float64 {
	if len(returns) < 2 {
		return nil
	}
	excess := make([]float64, len(returns))
	daily := riskFreeRate / tradingDays
	for i, r := range returns {
		excess[i] = r - daily
	}
	std := sampleStd(excess)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	return ptr(math.Sqrt(tradingDays) * mean(excess) / std)
}

// SortinoRatio is the Sharpe variant that only penalizes downside deviation.
// Nil when there are fewer than 2 observations, fewer than 2 negative excess
// returns, or zero downside deviation.
func SortinoRatio(returns []float64, riskFreeRate float64) *float64 {
	if len(returns) < 2 {
		return nil
	}
	daily := riskFreeRate / tradingDays
	excess := make([]float64, len(returns))
	var downside []float64
	for i, r := range returns {
		excess[i] = r - daily
		if excess[i] < 0 {
			downside = append(downside, excess[i])
		}
	}
	std := sampleStd(downside)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	return ptr(math.Sqrt(tradingDays) * mean(excess) / std)
}

// MaxDrawdown walks the cumulative value implied by a return series and
// reports the deepest decline from a running peak, as well as the current
// drawdown from the latest peak.
func MaxDrawdown(returns []float64) *Drawdown {
	if len(returns) == 0 {
		return nil
	}
	cumulative := make([]float64, len(returns))
	value := 1.0
	for i, r := range returns {
		value *= 1 + r
		cumulative[i] = value
	}

	peak := cumulative[0]
	peakIdx := 0
	var dd Drawdown
	for i, v := range cumulative {
		if v > peak {
			peak = v
			peakIdx = i
		}
		decline := (peak - v) / peak * 100
		if decline > dd.MaxPercent {
			dd.MaxPercent = decline
			dd.Peak = peakIdx
			dd.Trough = i
		}
	}
	last := cumulative[len(cumulative)-1]
	dd.CurrentPercent = (peak - last) / peak * 100
	return &dd
}

// BetaTo estimates the sensitivity of an asset to its benchmark as the ratio
// of their covariance to the benchmark variance, over the common trailing
// window. Nil with fewer than minBetaObservations aligned points or a flat
// benchmark.
func BetaTo(asset, benchmark []float64) *float64 {
	a, b := alignTail(asset, benchmark)
	if len(a) < minBetaObservations {
		return nil
	}
	variance := sampleCovariance(b, b)
	if variance == 0 {
		return nil
	}
	return ptr(sampleCovariance(a, b) / variance)
}

// Volatility is the annualized sample standard deviation of daily returns.
// Nil with fewer than 2 observations.
func Volatility(returns []float64) *float64 {
	std := sampleStd(returns)
	if math.IsNaN(std) {
		return nil
	}
	return ptr(std * math.Sqrt(tradingDays))
}

// AssessRisk labels the risk profile of a single position from its return
// series and the benchmark's.
func AssessRisk(returns, benchmark []float64) *RiskSignals {
	return ScoreRisk(Volatility(returns), BetaTo(returns, benchmark))
}

// PositionRisk is the risk assessment of one open position, the per-holding
// complement to the portfolio RiskSummary.
type PositionRisk struct {
	Symbol       string    `json:"symbol"`
	PnL          float64   `json:"current_pnl"`
	PnLPercent   float64   `json:"pnl_percent"`
	Volatility   *float64  `json:"volatility,omitempty"`
	Beta         *float64  `json:"beta,omitempty"`
	Level        RiskLevel `json:"risk_level"`
	CurrentPrice float64   `json:"current_price"`
}

// AssessPositionRisk grades one open position: annualized volatility, beta
// against the benchmark, unrealized P&L, and a level driven by the
// volatility.
func AssessPositionRisk(pos *Position, returns, benchmark []float64) *PositionRisk {
	vol := Volatility(returns)
	return &PositionRisk{
		Symbol:       pos.Symbol,
		PnL:          pos.PnL().AsFloat(),
		PnLPercent:   float64(pos.ReturnPercent()),
		Volatility:   vol,
		Beta:         BetaTo(returns, benchmark),
		Level:        classifyRiskLevel(vol),
		CurrentPrice: pos.LastPrice.AsFloat(),
	}
}

// classifyRiskLevel buckets the annualized volatility of a position. An
// unknown volatility grades LOW, it does not refuse the assessment.
func classifyRiskLevel(volatility *float64) RiskLevel {
	switch {
	case volatility == nil:
		return RiskLow
	case *volatility > 0.4:
		return RiskHigh
	case *volatility > 0.25:
		return RiskMedium
	default:
		return RiskLow
	}
}

// CorrelationMatrix computes the pairwise Pearson correlations of the given
// return series over their common trailing window. Symbols with fewer than 2
// observations are excluded, not zero-filled. It requires at least 2 usable
// symbols.
func CorrelationMatrix(series []ReturnSeries) (map[string]map[string]float64, error) {
	usable := make([]ReturnSeries, 0, len(series))
	for _, s := range series {
		if len(s.Returns) >= 2 {
			usable = append(usable, s)
		}
	}
	if len(usable) < 2 {
		return nil, fmt.Errorf("correlation matrix needs at least 2 symbols with history: %w", ErrInsufficientHistory)
	}
	matrix := make(map[string]map[string]float64, len(usable))
	for _, s := range usable {
		matrix[s.Symbol] = make(map[string]float64, len(usable))
	}
	for i, a := range usable {
		matrix[a.Symbol][a.Symbol] = 1
		for _, b := range usable[i+1:] {
			x, y := alignTail(a.Returns, b.Returns)
			r := pearson(x, y)
			matrix[a.Symbol][b.Symbol] = r
			matrix[b.Symbol][a.Symbol] = r
		}
	}
	return matrix, nil
}

// Summarize computes the portfolio level risk metrics, best effort: metrics
// whose inputs are too short are left nil rather than failing the summary.
func Summarize(series []ReturnSeries, portfolioValue, confidence, riskFreeRate float64, horizonDays int) *RiskSummary {
	summary := &RiskSummary{}
	if v, err := HistoricalVaR(series, portfolioValue, confidence, horizonDays); err == nil {
		summary.ValueAtRisk = v
	}
	combined := PortfolioReturns(series)
	summary.Sharpe = SharpeRatio(combined, riskFreeRate)
	summary.Sortino = SortinoRatio(combined, riskFreeRate)
	summary.MaxDrawdown = MaxDrawdown(combined)
	return summary
}

// Package advisor provides the analytics core of a personal investment
// decision-support tool. It turns market data into technical indicators,
// converts indicators and fundamentals into categorical signals, combines the
// signals into BUY/SELL/HOLD recommendations with a confidence score, sizes
// positions by risk budget, and computes portfolio risk metrics
// (Value-at-Risk, Sharpe, Sortino, drawdown, beta and correlations).
//
// The core functionalities include:
//   - Indicator Engine: moving averages, RSI, MACD, Bollinger Bands and OBV
//     computed from a daily price series, surfaced as a point-in-time snapshot.
//   - Signal Scorers: technical, fundamental and risk scorers producing
//     categorical labels and a normalized sub-score over the dimensions that
//     were actually available.
//   - Decision Engine: a weighted combination of the sub-scores with a
//     volatility adjustment, an optional natural-language rationale, and a
//     position-size recommendation on BUY.
//   - Portfolio Accounting: a simulated portfolio with cash, positions and a
//     transaction record, valued against current prices.
//   - Risk Engine: historical VaR, risk-adjusted return ratios, maximum
//     drawdown, beta and pairwise correlations over daily return series.
//
// Every computation is a pure function of its inputs: the package never talks
// to a network or a store itself. Market data, persistence and the reasoning
// collaborator are injected by the caller; see the yahoo, agent and cmd
// packages. This package serves as the foundational logic for the `pia`
// command-line tool.
package advisor

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/etnz/advisor/renderer"
	"github.com/google/subcommands"
)

type riskCmd struct{}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "portfolio risk report" }
func (*riskCmd) Usage() string {
	return `pia risk

  Computes the portfolio risk report from the past year of history:
  Value-at-Risk, Sharpe and Sortino ratios, maximum drawdown, and a
  per-position risk grade.
`
}

func (*riskCmd) SetFlags(f *flag.FlagSet) {}

func (c *riskCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}
	portfolio, err := LoadPortfolio(settings)
	if err != nil {
		return fail(err)
	}
	if len(portfolio.Positions()) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no open positions to assess.")
		return subcommands.ExitFailure
	}

	analyzer := NewAnalyzer(ctx, settings, false)
	summary := analyzer.PortfolioRisk(ctx, portfolio)
	printMarkdown(renderer.Risk(summary, portfolio.Currency()))
	printMarkdown(renderer.PositionRisks(analyzer.PositionRisks(ctx, portfolio), portfolio.Currency()))
	return subcommands.ExitSuccess
}

type correlationCmd struct{}

func (*correlationCmd) Name() string     { return "correlation" }
func (*correlationCmd) Synopsis() string { return "correlation matrix of symbols" }
func (*correlationCmd) Usage() string {
	return `pia correlation [<symbol>...]

  Computes the pairwise correlation matrix of the given symbols, defaulting
  to the open positions of the portfolio.
`
}

func (*correlationCmd) SetFlags(f *flag.FlagSet) {}

func (c *correlationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}

	symbols := f.Args()
	if len(symbols) == 0 {
		portfolio, err := LoadPortfolio(settings)
		if err != nil {
			return fail(err)
		}
		for symbol := range portfolio.Positions() {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
	}
	if len(symbols) < 2 {
		fmt.Fprintln(os.Stderr, "Error: at least two symbols are required.")
		return subcommands.ExitUsageError
	}

	analyzer := NewAnalyzer(ctx, settings, false)
	matrix, err := analyzer.Correlations(ctx, symbols)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Correlations(matrix))
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/advisor"
	"github.com/etnz/advisor/renderer"
	"github.com/google/subcommands"
)

type sizeCmd struct {
	price float64
	value float64
}

func (*sizeCmd) Name() string     { return "size" }
func (*sizeCmd) Synopsis() string { return "compute a position size for a symbol" }
func (*sizeCmd) Usage() string {
	return `pia size [-price <price>] [-value <portfolio_value>] <symbol>

  Computes a fixed-fractional position size using the settings' risk per
  trade, stop loss and position cap. The price defaults to the latest quote,
  the value to the current portfolio total.
`
}

func (c *sizeCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.price, "price", 0, "Entry price. Defaults to the latest quote.")
	f.Float64Var(&c.value, "value", 0, "Portfolio value. Defaults to the current total.")
}

func (c *sizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	symbol := f.Arg(0)

	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}

	price := c.price
	value := c.value
	if price <= 0 || value <= 0 {
		analyzer := NewAnalyzer(ctx, settings, false)
		if price <= 0 {
			price, err = analyzer.Provider.Spot(ctx, symbol)
			if err != nil {
				return fail(err)
			}
		}
		if value <= 0 {
			portfolio, err := LoadPortfolio(settings)
			if err != nil {
				return fail(err)
			}
			value = portfolio.TotalValue().AsFloat()
		}
	}

	sizing, err := advisor.SizePosition(symbol, price, value, settings.RiskPerTrade, settings.StopLoss, settings.MaxPositionFraction)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.Sizing(sizing, settings.Currency))
	return subcommands.ExitSuccess
}

type kellyCmd struct {
	winProbability float64
	winLossRatio   float64
}

func (*kellyCmd) Name() string     { return "kelly" }
func (*kellyCmd) Synopsis() string { return "compute the Kelly fraction" }
func (*kellyCmd) Usage() string {
	return `pia kelly -p <win_probability> -b <win_loss_ratio>

  Computes the fraction of capital to commit according to the Kelly
  criterion, halved for safety and capped at 25%.
`
}

func (c *kellyCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.winProbability, "p", 0, "Probability of a winning trade, between 0 and 1.")
	f.Float64Var(&c.winLossRatio, "b", 0, "Average win divided by average loss.")
}

func (c *kellyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.winProbability <= 0 || c.winProbability >= 1 || c.winLossRatio <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -p must be in (0,1) and -b must be positive.")
		return subcommands.ExitUsageError
	}
	fraction := advisor.Kelly(c.winProbability, c.winLossRatio)
	fmt.Printf("Kelly fraction: %.1f%% of capital\n", fraction*100)
	return subcommands.ExitSuccess
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/etnz/advisor"
	"github.com/etnz/advisor/date"
	"github.com/etnz/advisor/renderer"
	"github.com/google/subcommands"
)

type holdingCmd struct {
	refresh bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "show cash and open positions" }
func (*holdingCmd) Usage() string {
	return `pia holding [-refresh]

  Shows the cash balance and the open positions of the portfolio.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "Fetch the latest quotes before valuing positions.")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}
	portfolio, err := LoadPortfolio(settings)
	if err != nil {
		return fail(err)
	}

	if c.refresh {
		analyzer := NewAnalyzer(ctx, settings, false)
		symbols := make([]string, 0, len(portfolio.Positions()))
		for symbol := range portfolio.Positions() {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
		for _, symbol := range symbols {
			price, err := analyzer.Provider.Spot(ctx, symbol)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: keeping last known price for %s: %v\n", symbol, err)
				continue
			}
			portfolio.MarkPrice(symbol, price)
		}
	}

	printMarkdown(renderer.Positions(portfolio))
	return subcommands.ExitSuccess
}

// tradeCmd carries the shared flags of buy and sell.
type tradeCmd struct {
	date     string
	quantity float64
	price    float64
	memo     string
}

func (t *tradeCmd) setFlags(f *flag.FlagSet) {
	f.StringVar(&t.date, "d", date.Today().String(), "Date of the trade.")
	f.Float64Var(&t.quantity, "q", 0, "Quantity of shares.")
	f.Float64Var(&t.price, "p", 0, "Price per share.")
	f.StringVar(&t.memo, "m", "", "Memo describing the rationale.")
}

// run applies the trade through fn and saves the ledger.
func (t *tradeCmd) run(f *flag.FlagSet, fn func(p *advisor.Portfolio, day date.Date, symbol string) error) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required.")
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(t.date)
	if err != nil {
		return fail(err)
	}
	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}
	portfolio, err := LoadPortfolio(settings)
	if err != nil {
		return fail(err)
	}
	if err := fn(portfolio, day, f.Arg(0)); err != nil {
		return fail(err)
	}
	if err := SavePortfolio(portfolio); err != nil {
		return fail(err)
	}
	fmt.Printf("Successfully recorded in %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}

type buyCmd struct{ tradeCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a buy in the ledger" }
func (*buyCmd) Usage() string {
	return `pia buy -q <quantity> -p <price> [-d <date>] [-m <memo>] <symbol>

  Records acquiring shares of a security.
`
}
func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(f, func(p *advisor.Portfolio, day date.Date, symbol string) error {
		return p.Buy(day, symbol, c.quantity, c.price, c.memo, 0)
	})
}

type sellCmd struct{ tradeCmd }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sell in the ledger" }
func (*sellCmd) Usage() string {
	return `pia sell -q <quantity> -p <price> [-d <date>] [-m <memo>] <symbol>

  Records disposing of shares of a security.
`
}
func (c *sellCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(f, func(p *advisor.Portfolio, day date.Date, symbol string) error {
		return p.Sell(day, symbol, c.quantity, c.price, c.memo, 0)
	})
}

type dividendCmd struct {
	date   string
	amount float64
	memo   string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a dividend payment" }
func (*dividendCmd) Usage() string {
	return `pia dividend -a <amount> [-d <date>] [-m <memo>] <symbol>

  Records a dividend payment for a held security.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the payment.")
	f.Float64Var(&c.amount, "a", 0, "Amount received.")
	f.StringVar(&c.memo, "m", "", "Memo describing the payment.")
}

func (c *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trade := tradeCmd{date: c.date, memo: c.memo}
	return trade.run(f, func(p *advisor.Portfolio, day date.Date, symbol string) error {
		return p.Dividend(day, symbol, c.amount, c.memo)
	})
}

// cashCmd carries the shared flags of deposit and withdraw.
type cashCmd struct {
	date   string
	amount float64
	memo   string
}

func (t *cashCmd) setFlags(f *flag.FlagSet) {
	f.StringVar(&t.date, "d", date.Today().String(), "Date of the movement.")
	f.Float64Var(&t.amount, "a", 0, "Amount of cash.")
	f.StringVar(&t.memo, "m", "", "Memo describing the movement.")
}

func (t *cashCmd) run(fn func(p *advisor.Portfolio, day date.Date) error) subcommands.ExitStatus {
	day, err := date.Parse(t.date)
	if err != nil {
		return fail(err)
	}
	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}
	portfolio, err := LoadPortfolio(settings)
	if err != nil {
		return fail(err)
	}
	if err := fn(portfolio, day); err != nil {
		return fail(err)
	}
	if err := SavePortfolio(portfolio); err != nil {
		return fail(err)
	}
	fmt.Printf("Successfully recorded in %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}

type depositCmd struct{ cashCmd }

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record a cash deposit" }
func (*depositCmd) Usage() string {
	return `pia deposit -a <amount> [-d <date>] [-m <memo>]

  Records adding cash to the portfolio.
`
}
func (c *depositCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(func(p *advisor.Portfolio, day date.Date) error {
		return p.Deposit(day, c.amount, c.memo)
	})
}

type withdrawCmd struct{ cashCmd }

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record a cash withdrawal" }
func (*withdrawCmd) Usage() string {
	return `pia withdraw -a <amount> [-d <date>] [-m <memo>]

  Records removing cash from the portfolio.
`
}
func (c *withdrawCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(func(p *advisor.Portfolio, day date.Date) error {
		return p.Withdraw(day, c.amount, c.memo)
	})
}

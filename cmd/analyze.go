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

type analyzeCmd struct {
	best   bool
	record bool
	reason bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "analyze symbols and recommend BUY/SELL/HOLD" }
func (*analyzeCmd) Usage() string {
	return `pia analyze [-best] [-record] [-reason] <symbol>...

  Runs the full analysis of each symbol: technical indicators, fundamentals,
  risk labels, and a recommendation with confidence and position sizing.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.best, "best", false, "Only show the highest scoring symbol.")
	f.BoolVar(&c.record, "record", false, "Record the decisions in the decision log.")
	f.BoolVar(&c.reason, "reason", false, "Generate an AI explanation for each decision.")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required.")
		return subcommands.ExitUsageError
	}

	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}
	portfolio, err := LoadPortfolio(settings)
	if err != nil {
		return fail(err)
	}

	analyzer := NewAnalyzer(ctx, settings, c.reason)
	decisions, err := analyzer.AnalyzeAll(ctx, f.Args(), portfolio.TotalValue().AsFloat())
	if err != nil {
		return fail(err)
	}
	if c.best {
		decisions = []*advisor.Decision{advisor.Best(decisions)}
	}

	if c.record {
		log, err := LoadDecisions()
		if err != nil {
			return fail(err)
		}
		for _, d := range decisions {
			log.Append(d)
		}
		if err := SaveDecisions(log); err != nil {
			return fail(err)
		}
	}

	for _, d := range decisions {
		printMarkdown(renderer.Decision(d))
	}
	return subcommands.ExitSuccess
}

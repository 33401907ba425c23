package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/advisor"
	"github.com/etnz/advisor/renderer"
	"github.com/google/subcommands"
)

type decisionsCmd struct {
	pending bool
}

func (*decisionsCmd) Name() string     { return "decisions" }
func (*decisionsCmd) Synopsis() string { return "list logged decisions" }
func (*decisionsCmd) Usage() string {
	return `pia decisions [-pending]

  Lists the decision log, or only the decisions still awaiting a verdict.
`
}

func (c *decisionsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.pending, "pending", false, "Only show pending decisions.")
}

func (c *decisionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log, err := LoadDecisions()
	if err != nil {
		return fail(err)
	}
	list := log.Decisions()
	if c.pending {
		list = log.Pending()
	}
	printMarkdown(renderer.Decisions(list))
	return subcommands.ExitSuccess
}

// decisionID parses the single id argument of a verdict command.
func decisionID(f *flag.FlagSet) (int, error) {
	if f.NArg() != 1 {
		return 0, fmt.Errorf("exactly one decision id is required")
	}
	id, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		return 0, fmt.Errorf("invalid decision id %q", f.Arg(0))
	}
	return id, nil
}

// verdict loads the log, applies fn to the decision, and saves the log.
func verdict(f *flag.FlagSet, fn func(*advisor.Decision) error) subcommands.ExitStatus {
	id, err := decisionID(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	log, err := LoadDecisions()
	if err != nil {
		return fail(err)
	}
	d, err := log.Get(id)
	if err != nil {
		return fail(err)
	}
	if err := fn(d); err != nil {
		return fail(err)
	}
	if err := SaveDecisions(log); err != nil {
		return fail(err)
	}
	fmt.Printf("Decision %d (%s %s) is now %s\n", d.ID, d.Type, d.Symbol, d.Status)
	return subcommands.ExitSuccess
}

type acceptCmd struct{}

func (*acceptCmd) Name() string     { return "accept" }
func (*acceptCmd) Synopsis() string { return "accept a pending decision" }
func (*acceptCmd) Usage() string {
	return `pia accept <id>

  Marks a pending decision as accepted, making it executable.
`
}
func (*acceptCmd) SetFlags(f *flag.FlagSet) {}
func (c *acceptCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}
	return verdict(f, func(d *advisor.Decision) error {
		if d.Confidence < settings.ConfidenceThreshold {
			fmt.Fprintf(os.Stderr, "warning: confidence %.0f%% is below the %.0f%% threshold\n",
				d.Confidence*100, settings.ConfidenceThreshold*100)
		}
		return d.Accept()
	})
}

type rejectCmd struct{}

func (*rejectCmd) Name() string     { return "reject" }
func (*rejectCmd) Synopsis() string { return "reject a pending decision" }
func (*rejectCmd) Usage() string {
	return `pia reject <id>

  Marks a pending decision as rejected.
`
}
func (*rejectCmd) SetFlags(f *flag.FlagSet) {}
func (c *rejectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return verdict(f, func(d *advisor.Decision) error { return d.Reject() })
}

type executeCmd struct{}

func (*executeCmd) Name() string     { return "execute" }
func (*executeCmd) Synopsis() string { return "execute an accepted decision" }
func (*executeCmd) Usage() string {
	return `pia execute <id>

  Records the trade of an accepted decision in the ledger. The decision must
  carry a known price; execution never substitutes one.
`
}
func (*executeCmd) SetFlags(f *flag.FlagSet) {}

func (c *executeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := LoadSettings()
	if err != nil {
		return fail(err)
	}
	portfolio, err := LoadPortfolio(settings)
	if err != nil {
		return fail(err)
	}
	return verdict(f, func(d *advisor.Decision) error {
		if err := portfolio.ExecuteDecision(d); err != nil {
			return err
		}
		return SavePortfolio(portfolio)
	})
}

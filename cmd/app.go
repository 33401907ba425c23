// Package cmd implements the CLI application of the personal investment
// advisor.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/advisor"
	"github.com/etnz/advisor/agent"
	"github.com/etnz/advisor/yahoo"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// Register the subcommands. A main package calls Register() and Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&analyzeCmd{}, "analysis")
	c.Register(&sizeCmd{}, "analysis")
	c.Register(&kellyCmd{}, "analysis")
	c.Register(&riskCmd{}, "analysis")
	c.Register(&correlationCmd{}, "analysis")

	c.Register(&decisionsCmd{}, "decisions")
	c.Register(&acceptCmd{}, "decisions")
	c.Register(&rejectCmd{}, "decisions")
	c.Register(&executeCmd{}, "decisions")

	c.Register(&holdingCmd{}, "ledger")
	c.Register(&buyCmd{}, "ledger")
	c.Register(&sellCmd{}, "ledger")
	c.Register(&dividendCmd{}, "ledger")
	c.Register(&depositCmd{}, "ledger")
	c.Register(&withdrawCmd{}, "ledger")

	c.Register(&assistCmd{}, "assistant")
	c.Register(&topicCmd{}, "documentation")
}

// As a CLI application the lifecycle is very short lived, so it is ok to use
// global variables for the shared flags.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file (JSONL format)")
var decisionsFile = flag.String("decisions-file", "decisions.jsonl", "Path to the decision log file (JSONL format)")
var settingsFile = flag.String("settings-file", "advisor.json", "Path to the settings file")

// LoadSettings reads the settings file, defaults when absent.
func LoadSettings() (advisor.Settings, error) {
	return advisor.LoadSettings(*settingsFile)
}

// LoadPortfolio replays the app ledger file. A missing file is an empty
// portfolio.
func LoadPortfolio(settings advisor.Settings) (*advisor.Portfolio, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return advisor.NewPortfolio(settings.Currency), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return advisor.LoadPortfolio(f, settings.Currency)
}

// SavePortfolio rewrites the app ledger file from the portfolio's ledger.
func SavePortfolio(p *advisor.Portfolio) error {
	f, err := os.Create(*ledgerFile)
	if err != nil {
		return fmt.Errorf("could not write ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return p.Save(f)
}

// LoadDecisions reads the app decision log. A missing file is an empty log.
func LoadDecisions() (*advisor.DecisionLog, error) {
	f, err := os.Open(*decisionsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return &advisor.DecisionLog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open decisions file %q: %w", *decisionsFile, err)
	}
	defer f.Close()
	return advisor.LoadDecisions(f)
}

// SaveDecisions rewrites the app decision log.
func SaveDecisions(l *advisor.DecisionLog) error {
	f, err := os.Create(*decisionsFile)
	if err != nil {
		return fmt.Errorf("could not write decisions file %q: %w", *decisionsFile, err)
	}
	defer f.Close()
	return l.Save(f)
}

// NewAnalyzer wires the full pipeline: cached yahoo provider, optional Gemini
// reasoner, and the decision engine configured from the settings.
func NewAnalyzer(ctx context.Context, settings advisor.Settings, withReasoner bool) *advisor.Analyzer {
	provider := advisor.NewCachedProvider(yahoo.New(), settings.CacheTTL())

	var reasoner advisor.Reasoner
	if withReasoner {
		client, err := genai.NewClient(ctx, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: no AI reasoner available:", err)
		} else {
			reasoner = agent.NewReasoner(client)
		}
	}
	return advisor.NewAnalyzer(provider, reasoner, settings)
}

// fail prints the error and returns the failure status, the uniform ending
// of all commands.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

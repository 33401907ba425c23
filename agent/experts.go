package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/advisor"
	"github.com/etnz/advisor/renderer"
	"google.golang.org/genai"
)

// newFacilitator builds the expert in charge of the conversation, with the
// other experts as its tools.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to decide what to do with his personal investments. He expects numbers
			from his own portfolio, not generic advice. Check the Analyst first to know what he holds.

			Devise a plan of questions to ask each expert and come up with the best response to the
			user's request. Never invent figures: everything quantitative comes from an expert.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher builds the expert grounding answers in recent public
// information through search.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert market researcher,
		well aware of financial products, companies and the latest market news.
		Ask the Researcher whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in market research. You can search and find anything related to
			financial institutions, companies, markets, funds. You leverage Google Search to
			ground your assertions, and you know how to relate the latest news to the user's
			holdings.
				`}}},
		},
	}
}

// Tools gives the Analyst expert access to the user's portfolio and to the
// analysis pipeline.
type Tools struct {
	Analyzer   *advisor.Analyzer
	LedgerFile string
}

// LoadPortfolio replays the ledger file. A missing file is an empty
// portfolio.
func (t *Tools) LoadPortfolio() (*advisor.Portfolio, error) {
	f, err := os.Open(t.LedgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return advisor.NewPortfolio(t.Analyzer.Settings.Currency), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", t.LedgerFile, err)
	}
	defer f.Close()
	return advisor.LoadPortfolio(f, t.Analyzer.Settings.Currency)
}

// NewAnalyst builds the expert in charge of the user's portfolio and of the
// quantitative analysis.
func NewAnalyst(tools *Tools) *Expert {
	lib := []Function{
		positionsFunc(tools),
		analyzeFunc(tools),
		riskFunc(tools),
	}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He reads the user's portfolio ledger and runs the
		quantitative analysis: positions, indicator-based recommendations, and portfolio risk.
		Ask the Analyst for any figure about the user's own holdings.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's investment portfolio.
				Use the available tools for every figure: positions and cash, per-symbol
				recommendations, and the portfolio risk report. Quote the tool output
				rather than recomputing anything yourself.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements Function from a declaration and a closure.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

// errResponse wraps an error into a function response the model can read.
func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"error": err.Error()},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:       id,
		Name:     name,
		Response: map[string]any{"output": output},
	}
}

func positionsFunc(tools *Tools) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Positions",
			Description: `Positions lists the cash balance and every open position in the user's
			portfolio, with quantity, market value and unrealized profit or loss.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the portfolio positions.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			p, err := tools.LoadPortfolio()
			if err != nil {
				return errResponse(id, "Positions", err)
			}
			return okResponse(id, "Positions", renderer.Positions(p))
		},
	}
}

func analyzeFunc(tools *Tools) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Analyze",
			Description: `Analyze runs the full quantitative analysis of one symbol: technical
			indicators, fundamentals, risk labels, and a BUY/SELL/HOLD recommendation with
			confidence and a suggested position size.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {
						Type:        genai.TypeString,
						Description: "The ticker symbol to analyze, e.g. AAPL or ^GSPC.",
					},
				},
				Required: []string{"symbol"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted recommendation with its signals.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			symbol, ok := args["symbol"].(string)
			if !ok || symbol == "" {
				return errResponse(id, "Analyze", fmt.Errorf("argument 'symbol' must be a non-empty string"))
			}
			p, err := tools.LoadPortfolio()
			if err != nil {
				return errResponse(id, "Analyze", err)
			}
			d, err := tools.Analyzer.Analyze(ctx, symbol, p.TotalValue().AsFloat())
			if err != nil {
				return errResponse(id, "Analyze", err)
			}
			return okResponse(id, "Analyze", renderer.Decision(d))
		},
	}
}

func riskFunc(tools *Tools) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Risk",
			Description: `Risk computes the portfolio risk report: Value-at-Risk, Sharpe and
			Sortino ratios, and maximum drawdown over the past year.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted risk report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			p, err := tools.LoadPortfolio()
			if err != nil {
				return errResponse(id, "Risk", err)
			}
			summary := tools.Analyzer.PortfolioRisk(ctx, p)
			return okResponse(id, "Risk", renderer.Risk(summary, p.Currency()))
		},
	}
}

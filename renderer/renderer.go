// Package renderer turns advisor values into markdown reports. Templates are
// embedded; view types pre-format every figure so templates stay layout-only.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/advisor"
)

//go:embed *.md
var templates embed.FS

// Positions renders the cash balance and open positions of a portfolio.
func Positions(p *advisor.Portfolio) string {
	return renderTemplate("positions", "positions.md", nil, NewPositionsView(p))
}

// Decision renders a recommendation with its signals and optional sizing.
func Decision(d *advisor.Decision) string {
	partials := map[string]string{"sizing": "sizing.md"}
	return renderTemplate("decision", "decision.md", partials, NewDecisionView(d))
}

// Decisions renders the decision log as a table.
func Decisions(list []*advisor.Decision) string {
	return renderTemplate("decisions", "decisions.md", nil, NewDecisionsView(list))
}

// Risk renders the portfolio risk report.
func Risk(s *advisor.RiskSummary, currency string) string {
	return renderTemplate("risk", "risk.md", nil, NewRiskView(s, currency))
}

// PositionRisks renders the per-position risk assessment table.
func PositionRisks(list []*advisor.PositionRisk, currency string) string {
	return renderTemplate("position_risks", "position_risks.md", nil, NewPositionRisksView(list, currency))
}

// Correlations renders the pairwise correlation matrix.
func Correlations(matrix map[string]map[string]float64) string {
	return renderTemplate("correlations", "correlations.md", nil, NewCorrelationsView(matrix))
}

// Sizing renders a position sizing suggestion on its own.
func Sizing(s *advisor.PositionSizing, currency string) string {
	return renderTemplate("sizing", "sizing.md", nil, NewSizingView(s, currency))
}

// renderTemplate is a generic utility to render a main template that depends
// on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

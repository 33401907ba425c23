// Package agent holds the AI side of the advisor: the one-shot reasoner that
// explains decisions, and the interactive assistant with its experts.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/advisor"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Reasoner generates the short natural-language rationale attached to a
// decision. It implements advisor.Reasoner with a single one-shot generation,
// no chat state.
type Reasoner struct {
	client *genai.Client
	model  string
}

var _ advisor.Reasoner = (*Reasoner)(nil)

// NewReasoner wraps a Gemini client.
func NewReasoner(client *genai.Client) *Reasoner {
	return &Reasoner{client: client, model: model}
}

// Reason sends the structured prompt and returns the generated text.
func (r *Reasoner) Reason(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generating reasoning: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty reasoning response")
	}
	return text, nil
}

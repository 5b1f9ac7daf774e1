package assistant

import (
	"context"
	"fmt"
)

// Summarize condenses text through the gateway. On any model failure the
// original text is returned unchanged rather than an error; a summary is
// never load-bearing.
func (a *Assistant) Summarize(ctx context.Context, text string) string {
	prompt := fmt.Sprintf("Summarize the following text concisely:\n\n%s", text)
	out, err := a.gateway.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("summarize failed", "error", err)
		return text
	}
	return out
}

// SuggestResponse drafts a professional email reply for the given context.
// Unlike Summarize there is no sensible degraded output, so failures
// propagate.
func (a *Assistant) SuggestResponse(ctx context.Context, situation string) (string, error) {
	prompt := fmt.Sprintf("Based on this context, suggest a professional email response:\n\n%s", situation)
	out, err := a.gateway.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("suggest response failed", "error", err)
		return "", fmt.Errorf("failed to generate response suggestion: %w", err)
	}
	return out, nil
}

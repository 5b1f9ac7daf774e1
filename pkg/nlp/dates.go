package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harrisonrobin/donna/pkg/llm"
)

// DateResolutionError reports that neither the model nor the fallback parser
// could turn a phrase into a timestamp.
type DateResolutionError struct {
	Text string
}

func (e *DateResolutionError) Error() string {
	return fmt.Sprintf("could not resolve date/time from %q", e.Text)
}

const datePromptTemplate = `Convert this natural language date/time to ISO 8601 format.
Current date/time: %s

Input: %q

Respond ONLY with the ISO 8601 date string, nothing else.
Example: 2024-03-15T14:30:00.000Z`

// DateResolver converts free-form date/time phrases into absolute
// timestamps. The primary path is model-backed and therefore
// non-deterministic; callers that need reproducibility should use
// ParseDateFallback directly.
type DateResolver struct {
	gateway llm.Gateway
	logger  *slog.Logger
}

func NewDateResolver(gateway llm.Gateway, logger *slog.Logger) *DateResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &DateResolver{gateway: gateway, logger: logger.With("component", "date-resolver")}
}

// Resolve turns text into a timestamp relative to now. If the model output
// does not parse as an instant, or the gateway call fails, it falls back to
// ParseDateFallback on the original text; if that also fails it returns a
// *DateResolutionError.
func (r *DateResolver) Resolve(ctx context.Context, text string, now time.Time) (time.Time, error) {
	prompt := fmt.Sprintf(datePromptTemplate, now.UTC().Format(time.RFC3339), text)

	raw, err := r.gateway.Generate(ctx, prompt)
	if err == nil {
		if ts, perr := parseInstant(strings.TrimSpace(raw)); perr == nil {
			return ts, nil
		}
		r.logger.Warn("model returned unparseable instant", "text", text, "output", strings.TrimSpace(raw))
	} else {
		r.logger.Warn("date generation failed, using fallback", "text", text, "error", err)
	}

	ts, err := ParseDateFallback(text)
	if err != nil {
		return time.Time{}, &DateResolutionError{Text: text}
	}
	return ts, nil
}

// fallbackLayouts are tried in order by ParseDateFallback. Locale-naive,
// matching the common shapes the model is prompted to produce plus a few
// human ones.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseDateFallback is the deterministic path: a fixed set of layouts tried
// in order against the trimmed input. Date-only layouts resolve to midnight
// UTC.
func ParseDateFallback(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	for _, layout := range fallbackLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date string %q", s)
}

// parseInstant accepts RFC3339 with or without sub-second precision.
func parseInstant(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, s)
}

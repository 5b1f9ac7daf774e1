package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/harrisonrobin/donna/pkg/llm"
)

const intentPromptTemplate = `You are an AI assistant that parses natural language commands for an executive assistant application.
Analyze the following command and extract the intent and parameters.

Command: %q

Respond ONLY with a valid JSON object in this exact format:
{
  "action": "schedule_meeting" | "send_email" | "create_task" | "query_info" | "unknown",
  "parameters": {
    // Extract relevant parameters based on the action
    // For schedule_meeting: title, startTime, endTime, attendees, location, description
    // For send_email: to, subject, body, type (follow_up, meeting_invite, reminder)
    // For create_task: title, description, dueDate, priority, assignedTo
    // For query_info: query
  },
  "confidence": 0.0-1.0
}

Examples:
- "Schedule a meeting with John next Tuesday at 2pm for 1 hour" -> schedule_meeting
- "Send a follow-up email to sarah@example.com about yesterday's meeting" -> send_email
- "Create a high priority task to review Q4 budget by Friday" -> create_task
- "What meetings do I have tomorrow?" -> query_info

Important:
- For dates/times, use ISO format or be descriptive (e.g., "next Tuesday 2pm")
- Extract email addresses when mentioned
- Identify priority levels (high, medium, low) for tasks
- Return ONLY valid JSON, no additional text`

// Parser converts a command string into an Intent. It never fails outward:
// any gateway, extraction, or decode failure degrades to an unknown intent
// with confidence zero. Misrouting on bad input is worse than doing nothing.
type Parser struct {
	gateway   llm.Gateway
	extractor Extractor
	logger    *slog.Logger
}

// NewParser builds a parser. A nil extractor defaults to BraceExtractor and
// a nil logger defaults to slog.Default.
func NewParser(gateway llm.Gateway, extractor Extractor, logger *slog.Logger) *Parser {
	if extractor == nil {
		extractor = BraceExtractor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		gateway:   gateway,
		extractor: extractor,
		logger:    logger.With("component", "intent-parser"),
	}
}

// Parse interprets command. The returned intent always carries one of the
// five enumerated actions; confidence is clamped to [0,1].
func (p *Parser) Parse(ctx context.Context, command string) Intent {
	prompt := fmt.Sprintf(intentPromptTemplate, command)
	p.logger.Debug("parsing command", "command", command)

	text, err := p.gateway.Generate(ctx, prompt)
	if err != nil {
		p.logger.Error("intent generation failed", "error", err)
		return unknownIntent()
	}

	raw, err := p.extractor.Extract(text)
	if err != nil {
		p.logger.Error("no intent JSON in model output", "error", err)
		return unknownIntent()
	}

	var intent Intent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		p.logger.Error("intent JSON malformed", "error", err)
		return unknownIntent()
	}

	if !intent.Action.Valid() {
		p.logger.Warn("unrecognized action from model", "action", intent.Action)
		intent.Action = ActionUnknown
	}
	if intent.Parameters == nil {
		intent.Parameters = map[string]any{}
	}
	if intent.Confidence < 0 {
		intent.Confidence = 0
	} else if intent.Confidence > 1 {
		intent.Confidence = 1
	}

	p.logger.Info("parsed intent", "action", intent.Action, "confidence", intent.Confidence)
	return intent
}

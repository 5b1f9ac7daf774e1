// Package nlp turns natural-language commands into structured intents and
// free-form date phrases into absolute timestamps, using the language-model
// gateway with deterministic fallbacks.
package nlp

// Action is the enumerated intent of a parsed command.
type Action string

const (
	ActionScheduleMeeting Action = "schedule_meeting"
	ActionSendEmail       Action = "send_email"
	ActionCreateTask      Action = "create_task"
	ActionQueryInfo       Action = "query_info"
	ActionUnknown         Action = "unknown"
)

// Valid reports whether a is one of the five enumerated actions.
func (a Action) Valid() bool {
	switch a {
	case ActionScheduleMeeting, ActionSendEmail, ActionCreateTask, ActionQueryInfo, ActionUnknown:
		return true
	}
	return false
}

// Intent is the structured interpretation of a single command. Produced once
// per command and never persisted.
type Intent struct {
	Action     Action         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Confidence float64        `json:"confidence"`
}

// unknownIntent is what the parser degrades to on any failure.
func unknownIntent() Intent {
	return Intent{Action: ActionUnknown, Parameters: map[string]any{}, Confidence: 0}
}

// Package assistant routes parsed intents to the calendar, email, and task
// collaborators. It is the composition root of the command pipeline:
// raw text -> intent parser -> dispatch -> result.
package assistant

import (
	"context"
	"log/slog"
	"time"

	"github.com/harrisonrobin/donna/pkg/calendar"
	"github.com/harrisonrobin/donna/pkg/email"
	"github.com/harrisonrobin/donna/pkg/llm"
	"github.com/harrisonrobin/donna/pkg/nlp"
	"github.com/harrisonrobin/donna/pkg/task"
)

// defaultMeetingLength applies when a command names a start but no end.
const defaultMeetingLength = 60 * time.Minute

// Assistant wires the pipeline together.
type Assistant struct {
	parser   *nlp.Parser
	dates    *nlp.DateResolver
	gateway  llm.Gateway
	store    *task.Store
	calendar calendar.Client
	email    *email.Service
	logger   *slog.Logger
	now      func() time.Time
}

// New builds an assistant over the given collaborators.
func New(gateway llm.Gateway, store *task.Store, cal calendar.Client, mail *email.Service, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "assistant")
	return &Assistant{
		parser:   nlp.NewParser(gateway, nil, logger),
		dates:    nlp.NewDateResolver(gateway, logger),
		gateway:  gateway,
		store:    store,
		calendar: cal,
		email:    mail,
		logger:   logger,
		now:      time.Now,
	}
}

// CommandResult is the fail-soft envelope returned for every command.
type CommandResult struct {
	Success         bool   `json:"success"`
	Intent          string `json:"intent,omitempty"`
	Result          any    `json:"result,omitempty"`
	Error           string `json:"error,omitempty"`
	OriginalCommand string `json:"originalCommand"`
}

// ProcessCommand parses and dispatches one natural-language command.
// Dispatch failures are folded into the result rather than returned, so the
// caller always gets a CommandResult.
func (a *Assistant) ProcessCommand(ctx context.Context, command, userEmail string) CommandResult {
	a.logger.Info("processing command", "command", command)

	intent := a.parser.Parse(ctx, command)
	result, err := a.dispatch(ctx, intent, userEmail)
	if err != nil {
		a.logger.Error("command failed", "action", intent.Action, "error", err)
		return CommandResult{
			Success:         false,
			Intent:          string(intent.Action),
			Error:           err.Error(),
			OriginalCommand: command,
		}
	}
	return CommandResult{
		Success:         true,
		Intent:          string(intent.Action),
		Result:          result,
		OriginalCommand: command,
	}
}

// dispatch routes on the intent's action. Unknown or unrecognized actions
// fail loud with *UnsupportedActionError.
func (a *Assistant) dispatch(ctx context.Context, intent nlp.Intent, userEmail string) (any, error) {
	switch intent.Action {
	case nlp.ActionScheduleMeeting:
		return a.handleScheduleMeeting(ctx, intent.Parameters)
	case nlp.ActionSendEmail:
		return a.handleSendEmail(ctx, intent.Parameters, userEmail)
	case nlp.ActionCreateTask:
		return a.handleCreateTask(ctx, intent.Parameters, userEmail)
	case nlp.ActionQueryInfo:
		return a.handleQuery(ctx, intent.Parameters)
	default:
		return nil, &UnsupportedActionError{Action: intent.Action}
	}
}

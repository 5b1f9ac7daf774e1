package assistant

import (
	"fmt"

	"github.com/harrisonrobin/donna/pkg/calendar"
	"github.com/harrisonrobin/donna/pkg/nlp"
)

// UnsupportedActionError reports a dispatch on an unknown or unhandled
// action. Fatal to the command, not to the process.
type UnsupportedActionError struct {
	Action nlp.Action
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action %q", e.Action)
}

// PartialScheduleError is the enumerated outcome of the two-step
// schedule_meeting saga: the calendar event was created but the invite email
// failed. The event persists; callers may need to query calendar state to
// reconcile.
type PartialScheduleError struct {
	Event calendar.Event
	Err   error
}

func (e *PartialScheduleError) Error() string {
	return fmt.Sprintf("meeting %q created (event %s) but invite email failed: %v",
		e.Event.Summary, e.Event.ID, e.Err)
}

func (e *PartialScheduleError) Unwrap() error {
	return e.Err
}

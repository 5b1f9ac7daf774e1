package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/donna/pkg/calendar"
	"github.com/harrisonrobin/donna/pkg/email"
	"github.com/harrisonrobin/donna/pkg/task"
)

// ScheduleMeetingResult reports a created meeting.
type ScheduleMeetingResult struct {
	Message string         `json:"message"`
	Event   calendar.Event `json:"event"`
}

// EmailResult reports a delivered email.
type EmailResult struct {
	Message    string   `json:"message"`
	MessageID  string   `json:"messageId"`
	Recipients []string `json:"recipients"`
}

// QueryResult carries the answer to a query_info command.
type QueryResult struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// handleScheduleMeeting creates the calendar event, then emails the invite
// when attendees are present. The two steps are independent network calls:
// an invite failure does not roll back the event, it surfaces as
// *PartialScheduleError.
func (a *Assistant) handleScheduleMeeting(ctx context.Context, params map[string]any) (any, error) {
	title := stringParam(params, "title")
	attendees := stringsParam(params, "attendees")

	start, err := a.dates.Resolve(ctx, stringParam(params, "startTime"), a.now())
	if err != nil {
		return nil, fmt.Errorf("resolve start time: %w", err)
	}
	var end time.Time
	if raw := stringParam(params, "endTime"); raw != "" {
		end, err = a.dates.Resolve(ctx, raw, a.now())
		if err != nil {
			return nil, fmt.Errorf("resolve end time: %w", err)
		}
	} else {
		end = start.Add(defaultMeetingLength)
	}

	event, err := a.calendar.CreateEvent(ctx, calendar.EventDetails{
		Summary:     title,
		Description: stringParam(params, "description"),
		Location:    stringParam(params, "location"),
		Start:       start,
		End:         end,
		Attendees:   attendees,
	})
	if err != nil {
		return nil, err
	}

	if len(attendees) > 0 {
		_, err := a.email.SendMeetingInvite(attendees, email.MeetingDetails{
			Title:       title,
			StartTime:   start,
			EndTime:     end,
			Location:    stringParam(params, "location"),
			Description: stringParam(params, "description"),
		})
		if err != nil {
			return nil, &PartialScheduleError{Event: event, Err: err}
		}
	}

	return ScheduleMeetingResult{Message: "Meeting scheduled successfully", Event: event}, nil
}

// handleSendEmail picks a composition path from the type parameter:
// follow_up, meeting_invite, or a plain message.
func (a *Assistant) handleSendEmail(ctx context.Context, params map[string]any, userEmail string) (any, error) {
	to := stringsParam(params, "to")
	if len(to) == 0 {
		return nil, fmt.Errorf("send_email requires a recipient")
	}
	subject := stringParam(params, "subject")
	body := stringParam(params, "body")

	switch stringParam(params, "type") {
	case "follow_up":
		details, err := a.followUpDetails(ctx, params, to, subject, body)
		if err != nil {
			return nil, err
		}
		id, err := a.email.SendFollowUp(to[0], details)
		if err != nil {
			return nil, err
		}
		return EmailResult{Message: "Follow-up email sent", MessageID: id, Recipients: to[:1]}, nil

	case "meeting_invite":
		md := mapParam(params, "meetingDetails")
		if md == nil {
			return nil, fmt.Errorf("meeting_invite email requires meetingDetails")
		}
		details, err := a.meetingDetails(ctx, md)
		if err != nil {
			return nil, err
		}
		id, err := a.email.SendMeetingInvite(to, details)
		if err != nil {
			return nil, err
		}
		return EmailResult{Message: "Meeting invite sent", MessageID: id, Recipients: to}, nil

	default:
		id, err := a.email.Send(to, subject, bodyAsHTML(body), body)
		if err != nil {
			return nil, err
		}
		return EmailResult{Message: "Email sent", MessageID: id, Recipients: to}, nil
	}
}

// followUpDetails reads meetingDetails, synthesizing a minimal structure
// from subject/body when the parameter is absent.
func (a *Assistant) followUpDetails(ctx context.Context, params map[string]any, to []string, subject, body string) (email.FollowUpDetails, error) {
	md := mapParam(params, "meetingDetails")
	if md == nil {
		return email.FollowUpDetails{
			Title:     subject,
			Date:      a.now(),
			Attendees: to,
			Notes:     body,
		}, nil
	}

	date := a.now()
	if raw := stringParam(md, "date"); raw != "" {
		resolved, err := a.dates.Resolve(ctx, raw, a.now())
		if err != nil {
			return email.FollowUpDetails{}, fmt.Errorf("resolve follow-up date: %w", err)
		}
		date = resolved
	}
	attendees := stringsParam(md, "attendees")
	if len(attendees) == 0 {
		attendees = to
	}
	return email.FollowUpDetails{
		Title:     stringParam(md, "title"),
		Date:      date,
		Attendees: attendees,
		Notes:     stringParam(md, "notes"),
	}, nil
}

func (a *Assistant) meetingDetails(ctx context.Context, md map[string]any) (email.MeetingDetails, error) {
	start, err := a.dates.Resolve(ctx, stringParam(md, "startTime"), a.now())
	if err != nil {
		return email.MeetingDetails{}, fmt.Errorf("resolve invite start time: %w", err)
	}
	end := start.Add(defaultMeetingLength)
	if raw := stringParam(md, "endTime"); raw != "" {
		end, err = a.dates.Resolve(ctx, raw, a.now())
		if err != nil {
			return email.MeetingDetails{}, fmt.Errorf("resolve invite end time: %w", err)
		}
	}
	return email.MeetingDetails{
		Title:       stringParam(md, "title"),
		StartTime:   start,
		EndTime:     end,
		Location:    stringParam(md, "location"),
		Description: stringParam(md, "description"),
	}, nil
}

// handleCreateTask resolves the due date and delegates to the store.
// Priority defaults to medium and status to pending.
func (a *Assistant) handleCreateTask(ctx context.Context, params map[string]any, userEmail string) (any, error) {
	due, err := a.dates.Resolve(ctx, stringParam(params, "dueDate"), a.now())
	if err != nil {
		return nil, fmt.Errorf("resolve due date: %w", err)
	}

	assignedTo := stringParam(params, "assignedTo")
	if assignedTo == "" {
		assignedTo = userEmail
	}
	priority := task.Priority(stringParam(params, "priority"))
	if priority == "" {
		priority = task.PriorityMedium
	}

	created := a.store.Create(task.Task{
		Title:       stringParam(params, "title"),
		Description: stringParam(params, "description"),
		DueDate:     due,
		Priority:    priority,
		Status:      task.StatusPending,
		AssignedTo:  assignedTo,
		Tags:        stringsParam(params, "tags"),
	})
	return created, nil
}

// handleQuery routes on case-insensitive keywords: meeting/calendar hits the
// calendar, task hits the store, anything else gets the help message. A
// documented heuristic fallback, not a query language.
func (a *Assistant) handleQuery(ctx context.Context, params map[string]any) (any, error) {
	query := strings.ToLower(stringParam(params, "query"))

	switch {
	case strings.Contains(query, "meeting") || strings.Contains(query, "calendar"):
		events, err := a.calendar.ListEvents(ctx, a.now(), time.Time{})
		if err != nil {
			return nil, err
		}
		return QueryResult{
			Type:    "calendar_query",
			Data:    events,
			Message: fmt.Sprintf("Found %d upcoming events", len(events)),
		}, nil

	case strings.Contains(query, "task"):
		tasks := a.store.List(task.Filter{})
		return QueryResult{
			Type:    "task_query",
			Data:    tasks,
			Message: fmt.Sprintf("Found %d tasks", len(tasks)),
		}, nil

	default:
		return QueryResult{
			Type:    "general_query",
			Message: "I can help with meetings, tasks, and emails. What would you like to know?",
		}, nil
	}
}

func bodyAsHTML(body string) string {
	return "<html><body><p>" + strings.ReplaceAll(body, "\n", "</p><p>") + "</p></body></html>"
}

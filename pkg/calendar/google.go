package calendar

import (
	"context"
	"log/slog"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/donna/pkg/provider"
)

const (
	defaultCalendarID = "primary"
	listMaxResults    = 50
)

// GoogleClient implements Client against the Google Calendar v3 API.
type GoogleClient struct {
	srv        *gcal.Service
	calendarID string
	logger     *slog.Logger
}

// NewGoogleClient wraps an authenticated calendar service. An empty
// calendarID targets the primary calendar.
func NewGoogleClient(srv *gcal.Service, calendarID string, logger *slog.Logger) *GoogleClient {
	if calendarID == "" {
		calendarID = defaultCalendarID
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GoogleClient{
		srv:        srv,
		calendarID: calendarID,
		logger:     logger.With("component", "google-calendar"),
	}
}

// ListEvents returns single events ordered by start time. A zero timeMax
// leaves the range open-ended.
func (c *GoogleClient) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error) {
	call := c.srv.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(listMaxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	if !timeMax.IsZero() {
		call = call.TimeMax(timeMax.Format(time.RFC3339))
	}

	resp, err := call.Do()
	if err != nil {
		c.logger.Error("list events failed", "error", err)
		return nil, provider.Errorf("calendar", "list_events", err)
	}

	events := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, fromGoogleEvent(item))
	}
	return events, nil
}

// CreateEvent inserts an event with the assistant's defaults: attendees are
// notified and reminders fire by email a day ahead and by popup 30 minutes
// ahead.
func (c *GoogleClient) CreateEvent(ctx context.Context, details EventDetails) (Event, error) {
	ev := &gcal.Event{
		Summary:     details.Summary,
		Description: details.Description,
		Location:    details.Location,
		Start:       &gcal.EventDateTime{DateTime: details.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: details.End.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	for _, email := range details.Attendees {
		ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: email})
	}

	created, err := c.srv.Events.Insert(c.calendarID, ev).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		c.logger.Error("create event failed", "summary", details.Summary, "error", err)
		return Event{}, provider.Errorf("calendar", "create_event", err)
	}
	c.logger.Info("event created", "id", created.Id, "link", created.HtmlLink)
	return fromGoogleEvent(created), nil
}

// UpdateEvent applies a partial patch to an event.
func (c *GoogleClient) UpdateEvent(ctx context.Context, id string, patch EventPatch) (Event, error) {
	ev := &gcal.Event{}
	if patch.Summary != nil {
		ev.Summary = *patch.Summary
	}
	if patch.Description != nil {
		ev.Description = *patch.Description
	}
	if patch.Location != nil {
		ev.Location = *patch.Location
	}
	if patch.Start != nil {
		ev.Start = &gcal.EventDateTime{DateTime: patch.Start.UTC().Format(time.RFC3339), TimeZone: "UTC"}
	}
	if patch.End != nil {
		ev.End = &gcal.EventDateTime{DateTime: patch.End.UTC().Format(time.RFC3339), TimeZone: "UTC"}
	}

	updated, err := c.srv.Events.Patch(c.calendarID, id, ev).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		c.logger.Error("update event failed", "id", id, "error", err)
		return Event{}, provider.Errorf("calendar", "update_event", err)
	}
	return fromGoogleEvent(updated), nil
}

// DeleteEvent removes an event, notifying attendees.
func (c *GoogleClient) DeleteEvent(ctx context.Context, id string) error {
	if err := c.srv.Events.Delete(c.calendarID, id).SendUpdates("all").Context(ctx).Do(); err != nil {
		c.logger.Error("delete event failed", "id", id, "error", err)
		return provider.Errorf("calendar", "delete_event", err)
	}
	return nil
}

// fromGoogleEvent maps the API type onto the neutral model. All-day events
// carry a date instead of a datetime; both are handled.
func fromGoogleEvent(item *gcal.Event) Event {
	ev := Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		HTMLLink:    item.HtmlLink,
	}
	ev.Start = parseEventTime(item.Start)
	ev.End = parseEventTime(item.End)
	for _, a := range item.Attendees {
		ev.Attendees = append(ev.Attendees, a.Email)
	}
	return ev
}

func parseEventTime(edt *gcal.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if ts, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return ts
		}
	}
	if edt.Date != "" {
		if ts, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return ts
		}
	}
	return time.Time{}
}

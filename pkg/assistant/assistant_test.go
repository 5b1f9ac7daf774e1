package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/donna/pkg/calendar"
	"github.com/harrisonrobin/donna/pkg/email"
	"github.com/harrisonrobin/donna/pkg/task"
)

// scriptedGateway answers the intent prompt and the date prompt differently,
// so one fake serves the whole pipeline.
type scriptedGateway struct {
	intentJSON string
	dateISO    string
	err        error
}

func (g *scriptedGateway) Generate(_ context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if strings.Contains(prompt, "Convert this natural language date/time") {
		return g.dateISO, nil
	}
	return g.intentJSON, nil
}

// fakeCalendar records created events and serves a fixed list.
type fakeCalendar struct {
	events    []calendar.Event
	created   []calendar.EventDetails
	createErr error
	nextID    int
}

func (f *fakeCalendar) ListEvents(_ context.Context, _, _ time.Time) ([]calendar.Event, error) {
	return f.events, nil
}

func (f *fakeCalendar) CreateEvent(_ context.Context, d calendar.EventDetails) (calendar.Event, error) {
	if f.createErr != nil {
		return calendar.Event{}, f.createErr
	}
	f.created = append(f.created, d)
	f.nextID++
	return calendar.Event{
		ID:        "evt-" + strings.Repeat("x", f.nextID),
		Summary:   d.Summary,
		Start:     d.Start,
		End:       d.End,
		Attendees: d.Attendees,
	}, nil
}

func (f *fakeCalendar) UpdateEvent(_ context.Context, _ string, _ calendar.EventPatch) (calendar.Event, error) {
	return calendar.Event{}, errors.New("not implemented")
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

// fakeSender implements email.Sender.
type fakeSender struct {
	sent []struct {
		to      []string
		subject string
	}
	err error
}

func (f *fakeSender) Send(to []string, subject, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, struct {
		to      []string
		subject string
	}{to, subject})
	return "<id@test>", nil
}

func newTestAssistant(gw *scriptedGateway, cal *fakeCalendar, sender *fakeSender) (*Assistant, *task.Store) {
	store := task.NewStore(nil)
	a := New(gw, store, cal, email.NewService(sender, nil), nil)
	a.now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return a, store
}

// ---------------------------------------------------------------------------
// End-to-end command scenarios
// ---------------------------------------------------------------------------

func TestProcessCommandCreateTask(t *testing.T) {
	gw := &scriptedGateway{
		intentJSON: `{"action":"create_task","parameters":{"title":"Review Q4 budget","priority":"high","dueDate":"Friday"},"confidence":0.95}`,
		dateISO:    "2026-09-04T17:00:00Z",
	}
	a, store := newTestAssistant(gw, &fakeCalendar{}, &fakeSender{})

	res := a.ProcessCommand(context.Background(), "Create a high priority task to review Q4 budget by Friday", "me@example.com")

	if !res.Success {
		t.Fatalf("command failed: %s", res.Error)
	}
	if res.Intent != "create_task" {
		t.Errorf("intent = %s, want create_task", res.Intent)
	}

	created, ok := res.Result.(task.Task)
	if !ok {
		t.Fatalf("result is %T, want task.Task", res.Result)
	}
	if created.Priority != task.PriorityHigh {
		t.Errorf("priority = %s, want high", created.Priority)
	}
	if created.Status != task.StatusPending {
		t.Errorf("status = %s, want pending", created.Status)
	}
	if created.ReminderSent {
		t.Error("ReminderSent must start false")
	}
	if created.AssignedTo != "me@example.com" {
		t.Errorf("assignedTo = %s, want caller email", created.AssignedTo)
	}
	if !created.DueDate.Equal(time.Date(2026, 9, 4, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("dueDate = %v", created.DueDate)
	}

	// The task must actually be in the store, not just in the result.
	if got, err := store.Get(created.ID); err != nil || got.Title != "Review Q4 budget" {
		t.Errorf("task not persisted: %v %+v", err, got)
	}
}

func TestProcessCommandUnknownActionFailsSoft(t *testing.T) {
	gw := &scriptedGateway{intentJSON: `{"action":"unknown","parameters":{},"confidence":0}`}
	a, _ := newTestAssistant(gw, &fakeCalendar{}, &fakeSender{})

	res := a.ProcessCommand(context.Background(), "gibberish", "")
	if res.Success {
		t.Fatal("unknown action should fail the command")
	}
	if !strings.Contains(res.Error, "unsupported action") {
		t.Errorf("error = %q, want unsupported action", res.Error)
	}
	if res.OriginalCommand != "gibberish" {
		t.Errorf("original command not echoed: %q", res.OriginalCommand)
	}
}

func TestProcessCommandGatewayDownFailsSoft(t *testing.T) {
	gw := &scriptedGateway{err: errors.New("model offline")}
	a, _ := newTestAssistant(gw, &fakeCalendar{}, &fakeSender{})

	// Parser degrades to unknown, dispatch rejects it; no panic, no error
	// escapes ProcessCommand.
	res := a.ProcessCommand(context.Background(), "schedule something", "")
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.Intent != "unknown" {
		t.Errorf("intent = %s, want unknown", res.Intent)
	}
}

// ---------------------------------------------------------------------------
// schedule_meeting
// ---------------------------------------------------------------------------

func TestScheduleMeetingWithAttendees(t *testing.T) {
	gw := &scriptedGateway{
		intentJSON: `{"action":"schedule_meeting","parameters":{"title":"Sync with John","startTime":"Tuesday 2pm","attendees":["john@example.com"]},"confidence":0.9}`,
		dateISO:    "2026-09-01T14:00:00Z",
	}
	cal := &fakeCalendar{}
	sender := &fakeSender{}
	a, _ := newTestAssistant(gw, cal, sender)

	res := a.ProcessCommand(context.Background(), "Schedule a meeting with John Tuesday at 2pm", "")
	if !res.Success {
		t.Fatalf("command failed: %s", res.Error)
	}

	if len(cal.created) != 1 {
		t.Fatalf("expected 1 event, got %d", len(cal.created))
	}
	ev := cal.created[0]
	if !ev.Start.Equal(time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", ev.Start)
	}
	// No endTime in the command: default one hour.
	if ev.End.Sub(ev.Start) != time.Hour {
		t.Errorf("expected 60m default length, got %s", ev.End.Sub(ev.Start))
	}
	if len(sender.sent) != 1 || sender.sent[0].to[0] != "john@example.com" {
		t.Fatalf("expected one invite to john, got %+v", sender.sent)
	}
	if !strings.Contains(sender.sent[0].subject, "Sync with John") {
		t.Errorf("invite subject = %q", sender.sent[0].subject)
	}
}

func TestScheduleMeetingWithoutAttendeesSendsNoEmail(t *testing.T) {
	gw := &scriptedGateway{
		intentJSON: `{"action":"schedule_meeting","parameters":{"title":"Focus block","startTime":"Tuesday 2pm"},"confidence":0.9}`,
		dateISO:    "2026-09-01T14:00:00Z",
	}
	sender := &fakeSender{}
	a, _ := newTestAssistant(gw, &fakeCalendar{}, sender)

	if res := a.ProcessCommand(context.Background(), "block focus time", ""); !res.Success {
		t.Fatalf("command failed: %s", res.Error)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no invite expected, got %+v", sender.sent)
	}
}

func TestScheduleMeetingPartialFailure(t *testing.T) {
	gw := &scriptedGateway{
		intentJSON: `{"action":"schedule_meeting","parameters":{"title":"Sync","startTime":"Tuesday 2pm","attendees":["john@example.com"]},"confidence":0.9}`,
		dateISO:    "2026-09-01T14:00:00Z",
	}
	cal := &fakeCalendar{}
	sender := &fakeSender{err: errors.New("smtp down")}
	a, _ := newTestAssistant(gw, cal, sender)

	intent := a.parser.Parse(context.Background(), "schedule")
	_, err := a.dispatch(context.Background(), intent, "")

	var partial *PartialScheduleError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialScheduleError, got %v", err)
	}
	// The event persists; there is no rollback across collaborators.
	if len(cal.created) != 1 {
		t.Fatalf("event should have been created, got %d", len(cal.created))
	}
	if partial.Event.ID == "" {
		t.Error("partial error should carry the created event")
	}
}

// ---------------------------------------------------------------------------
// send_email
// ---------------------------------------------------------------------------

func TestSendEmailFollowUpSynthesizesDetails(t *testing.T) {
	gw := &scriptedGateway{
		intentJSON: `{"action":"send_email","parameters":{"type":"follow_up","to":"sarah@example.com","subject":"Yesterday's meeting","body":"Thanks for joining"},"confidence":0.9}`,
	}
	sender := &fakeSender{}
	a, _ := newTestAssistant(gw, &fakeCalendar{}, sender)

	res := a.ProcessCommand(context.Background(), "Send a follow-up email to sarah@example.com", "")
	if !res.Success {
		t.Fatalf("command failed: %s", res.Error)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sender.sent))
	}
	if sender.sent[0].subject != "Follow-up: Yesterday's meeting" {
		t.Errorf("subject = %q", sender.sent[0].subject)
	}
}

func TestSendEmailPlain(t *testing.T) {
	gw := &scriptedGateway{
		intentJSON: `{"action":"send_email","parameters":{"to":["a@x.com","b@x.com"],"subject":"Hello","body":"Hi there"},"confidence":0.9}`,
	}
	sender := &fakeSender{}
	a, _ := newTestAssistant(gw, &fakeCalendar{}, sender)

	res := a.ProcessCommand(context.Background(), "email a and b", "")
	if !res.Success {
		t.Fatalf("command failed: %s", res.Error)
	}
	if len(sender.sent[0].to) != 2 {
		t.Fatalf("expected 2 recipients, got %v", sender.sent[0].to)
	}
}

func TestSendEmailWithoutRecipientFails(t *testing.T) {
	gw := &scriptedGateway{
		intentJSON: `{"action":"send_email","parameters":{"subject":"Hello"},"confidence":0.9}`,
	}
	a, _ := newTestAssistant(gw, &fakeCalendar{}, &fakeSender{})

	if res := a.ProcessCommand(context.Background(), "email someone", ""); res.Success {
		t.Fatal("expected failure without recipient")
	}
}

// ---------------------------------------------------------------------------
// query_info
// ---------------------------------------------------------------------------

func TestQueryRouting(t *testing.T) {
	cal := &fakeCalendar{events: []calendar.Event{{Summary: "standup"}}}
	a, store := newTestAssistant(&scriptedGateway{}, cal, &fakeSender{})
	store.Create(task.Task{Title: "t1", DueDate: time.Now()})

	cases := []struct {
		query    string
		wantType string
	}{
		{"What MEETINGS do I have tomorrow?", "calendar_query"},
		{"show my calendar", "calendar_query"},
		{"list my tasks", "task_query"},
		{"what's the weather?", "general_query"},
	}
	for _, tc := range cases {
		got, err := a.handleQuery(context.Background(), map[string]any{"query": tc.query})
		if err != nil {
			t.Fatalf("handleQuery(%q) failed: %v", tc.query, err)
		}
		qr := got.(QueryResult)
		if qr.Type != tc.wantType {
			t.Errorf("handleQuery(%q).Type = %s, want %s", tc.query, qr.Type, tc.wantType)
		}
	}
}

// ---------------------------------------------------------------------------
// Gateway extras
// ---------------------------------------------------------------------------

func TestSummarizeFallsBackToInput(t *testing.T) {
	a, _ := newTestAssistant(&scriptedGateway{err: errors.New("offline")}, &fakeCalendar{}, &fakeSender{})
	if got := a.Summarize(context.Background(), "long text"); got != "long text" {
		t.Errorf("expected input back on failure, got %q", got)
	}
}

func TestSuggestResponsePropagatesFailure(t *testing.T) {
	a, _ := newTestAssistant(&scriptedGateway{err: errors.New("offline")}, &fakeCalendar{}, &fakeSender{})
	if _, err := a.SuggestResponse(context.Background(), "customer asked about pricing"); err == nil {
		t.Fatal("expected error")
	}
}

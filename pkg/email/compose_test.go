package email

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeSender records every send.
type fakeSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      []string
	subject string
	html    string
	text    string
}

func (f *fakeSender) Send(to []string, subject, html, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html, text: text})
	return "<test-id@localhost>", nil
}

func TestComposeMeetingInvite(t *testing.T) {
	subject, html, text := ComposeMeetingInvite(MeetingDetails{
		Title:     "Q4 Planning",
		StartTime: time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC),
		Location:  "Room 4",
	})
	if subject != "Meeting Invitation: Q4 Planning" {
		t.Errorf("unexpected subject %q", subject)
	}
	if !strings.Contains(text, "Room 4") {
		t.Errorf("text should mention location: %q", text)
	}
	if !strings.Contains(html, "<h2>Meeting Invitation</h2>") {
		t.Errorf("html missing heading: %q", html)
	}
}

func TestComposeTaskReminderUppercasesPriority(t *testing.T) {
	_, _, text := ComposeTaskReminder(ReminderDetails{
		Title:    "Review Q4 budget",
		DueDate:  time.Date(2026, 9, 4, 17, 0, 0, 0, time.UTC),
		Priority: "high",
	})
	if !strings.Contains(text, "Priority: HIGH") {
		t.Errorf("expected uppercase priority, got %q", text)
	}
}

func TestComposeFollowUpIncludesAttendeesAndNotes(t *testing.T) {
	_, _, text := ComposeFollowUp(FollowUpDetails{
		Title:     "Vendor sync",
		Date:      time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		Attendees: []string{"a@x.com", "b@x.com"},
		Notes:     "Decide on contract terms",
	})
	if !strings.Contains(text, "a@x.com, b@x.com") {
		t.Errorf("expected attendee list, got %q", text)
	}
	if !strings.Contains(text, "Decide on contract terms") {
		t.Errorf("expected notes, got %q", text)
	}
}

func TestServiceSendTaskReminder(t *testing.T) {
	fake := &fakeSender{}
	svc := NewService(fake, nil)

	if _, err := svc.SendTaskReminder("john@example.com", ReminderDetails{Title: "t", DueDate: time.Now(), Priority: "low"}); err != nil {
		t.Fatalf("SendTaskReminder failed: %v", err)
	}
	if len(fake.sent) != 1 || fake.sent[0].to[0] != "john@example.com" {
		t.Fatalf("unexpected sends: %+v", fake.sent)
	}
}

func TestServiceSendBulkStopsOnFailure(t *testing.T) {
	fake := &fakeSender{err: errors.New("smtp down")}
	svc := NewService(fake, nil)

	n, err := svc.SendBulk([]Message{{To: "a@x.com", Subject: "s"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if n != 0 {
		t.Fatalf("expected 0 delivered, got %d", n)
	}
}

func TestServiceSendBulkCounts(t *testing.T) {
	fake := &fakeSender{}
	svc := NewService(fake, nil)

	n, err := svc.SendBulk([]Message{
		{To: "a@x.com", Subject: "1"},
		{To: "b@x.com", Subject: "2"},
	})
	if err != nil {
		t.Fatalf("SendBulk failed: %v", err)
	}
	if n != 2 || len(fake.sent) != 2 {
		t.Fatalf("expected 2 sends, got n=%d sent=%d", n, len(fake.sent))
	}
}

// Package email is the email collaborator: a narrow Sender contract, an
// SMTP implementation, and the composition paths the dispatcher and the
// reminder scheduler use (meeting invites, follow-ups, task reminders).
package email

import (
	"fmt"
	"log/slog"
	"time"
)

// Sender delivers one message and returns a message id. Failure surfaces as
// a generic send error (wrapped provider.Error in the SMTP implementation).
type Sender interface {
	Send(to []string, subject, html, text string) (string, error)
}

// MeetingDetails feeds the invite composition path.
type MeetingDetails struct {
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Description string
}

// FollowUpDetails feeds the follow-up composition path.
type FollowUpDetails struct {
	Title     string
	Date      time.Time
	Attendees []string
	Notes     string
}

// ReminderDetails feeds the task-reminder composition path.
type ReminderDetails struct {
	Title       string
	DueDate     time.Time
	Priority    string
	Description string
}

// Message is one entry in a bulk send.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Service wraps a Sender with the assistant's composition paths.
type Service struct {
	sender Sender
	logger *slog.Logger
}

// NewService wraps sender.
func NewService(sender Sender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sender: sender, logger: logger.With("component", "email")}
}

// Send forwards a raw message to the underlying sender.
func (s *Service) Send(to []string, subject, html, text string) (string, error) {
	return s.sender.Send(to, subject, html, text)
}

// SendMeetingInvite mails an invitation to every attendee in one message.
func (s *Service) SendMeetingInvite(to []string, d MeetingDetails) (string, error) {
	subject, html, text := ComposeMeetingInvite(d)
	return s.sender.Send(to, subject, html, text)
}

// SendFollowUp mails a post-meeting follow-up.
func (s *Service) SendFollowUp(to string, d FollowUpDetails) (string, error) {
	subject, html, text := ComposeFollowUp(d)
	return s.sender.Send([]string{to}, subject, html, text)
}

// SendTaskReminder mails a due-date reminder.
func (s *Service) SendTaskReminder(to string, d ReminderDetails) (string, error) {
	subject, html, text := ComposeTaskReminder(d)
	return s.sender.Send([]string{to}, subject, html, text)
}

// SendBulk sends each message individually and reports the first failure
// along with how many went out before it.
func (s *Service) SendBulk(messages []Message) (int, error) {
	for i, m := range messages {
		if _, err := s.sender.Send([]string{m.To}, m.Subject, m.HTML, m.Text); err != nil {
			return i, fmt.Errorf("bulk send stopped at message %d: %w", i, err)
		}
	}
	s.logger.Info("bulk emails sent", "count", len(messages))
	return len(messages), nil
}

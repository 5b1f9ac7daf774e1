package email

import (
	"fmt"
	"strings"
	"time"
)

// Composition keeps to plain subject/body pairs; rich templating is out of
// scope. Each compose function returns (subject, html, text).

const timeLayout = "Mon, 2 Jan 2006 15:04 MST"

func ComposeMeetingInvite(d MeetingDetails) (subject, html, text string) {
	subject = fmt.Sprintf("Meeting Invitation: %s", d.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "You are invited to: %s\n", d.Title)
	fmt.Fprintf(&b, "Start: %s\n", d.StartTime.Format(timeLayout))
	fmt.Fprintf(&b, "End: %s\n", d.EndTime.Format(timeLayout))
	if d.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", d.Location)
	}
	if d.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Description)
	}
	b.WriteString("\nPlease confirm your attendance.\n")

	text = b.String()
	return subject, textToHTML("Meeting Invitation", text), text
}

func ComposeFollowUp(d FollowUpDetails) (subject, html, text string) {
	subject = fmt.Sprintf("Follow-up: %s", d.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "Follow-up for: %s\n", d.Title)
	fmt.Fprintf(&b, "Date: %s\n", d.Date.Format(timeLayout))
	if len(d.Attendees) > 0 {
		fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(d.Attendees, ", "))
	}
	if d.Notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", d.Notes)
	}
	b.WriteString("\nThank you for attending the meeting.\n")

	text = b.String()
	return subject, textToHTML("Meeting Follow-Up", text), text
}

func ComposeTaskReminder(d ReminderDetails) (subject, html, text string) {
	subject = fmt.Sprintf("Task Reminder: %s", d.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", d.Title)
	fmt.Fprintf(&b, "Priority: %s\n", strings.ToUpper(d.Priority))
	fmt.Fprintf(&b, "Due: %s\n", d.DueDate.Format(timeLayout))
	if d.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Description)
	}
	b.WriteString("\nThis is a reminder to complete this task.\n")

	text = b.String()
	return subject, textToHTML("Task Reminder", text), text
}

// textToHTML wraps a plain-text body into a minimal HTML document.
func textToHTML(heading, text string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>%s</h2>", heading)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			b.WriteString("<br>")
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>", line)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// FormatWhen is shared by callers that surface event times in message text.
func FormatWhen(t time.Time) string {
	return t.Format(timeLayout)
}

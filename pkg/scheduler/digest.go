package scheduler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/harrisonrobin/donna/pkg/email"
)

// EmailDigestSink delivers the daily digest to a fixed recipient. Failures
// are logged and swallowed; the digest is best-effort.
func EmailDigestSink(svc *email.Service, to string, logger *slog.Logger) DigestSink {
	if logger == nil {
		logger = slog.Default()
	}
	return func(d Digest) {
		subject := fmt.Sprintf("Daily digest: %d overdue, %d due soon", len(d.Overdue), len(d.DueSoon))
		text := composeDigestText(d)
		if _, err := svc.Send([]string{to}, subject, digestHTML(text), text); err != nil {
			logger.Error("digest send failed", "to", to, "error", err)
		}
	}
}

func composeDigestText(d Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily task digest for %s\n\n", email.FormatWhen(d.GeneratedAt))

	fmt.Fprintf(&b, "Overdue (%d):\n", len(d.Overdue))
	for _, t := range d.Overdue {
		fmt.Fprintf(&b, "  - [%s] %s (due %s)\n", t.Priority, t.Title, email.FormatWhen(t.DueDate))
	}
	if len(d.Overdue) == 0 {
		b.WriteString("  none\n")
	}

	fmt.Fprintf(&b, "\nDue in the next 24h (%d):\n", len(d.DueSoon))
	for _, t := range d.DueSoon {
		fmt.Fprintf(&b, "  - [%s] %s (due %s)\n", t.Priority, t.Title, email.FormatWhen(t.DueDate))
	}
	if len(d.DueSoon) == 0 {
		b.WriteString("  none\n")
	}

	fmt.Fprintf(&b, "\nTotals: %d tasks, %d pending, %d in progress, %d completed, %d overdue\n",
		d.Stats.Total, d.Stats.Pending, d.Stats.InProgress, d.Stats.Completed, d.Stats.Overdue)
	return b.String()
}

func digestHTML(text string) string {
	return "<html><body><pre>" + text + "</pre></body></html>"
}

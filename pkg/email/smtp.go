package email

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/harrisonrobin/donna/pkg/provider"
)

// SMTPSender delivers mail through an SMTP submission endpoint.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// NewSMTPSender configures a sender. from is used both as the envelope
// sender and the Message-ID domain.
func NewSMTPSender(host string, port int, username, password, from string, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger.With("component", "smtp"),
	}
}

// Send delivers one message to all recipients. SMTP submission does not
// return a server-side id, so a Message-ID header is generated here and
// returned.
func (s *SMTPSender) Send(to []string, subject, html, text string) (string, error) {
	if len(to) == 0 {
		return "", provider.Errorf("email", "send", fmt.Errorf("no recipients"))
	}

	messageID := newMessageID(s.from)
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", messageID)
	if text != "" {
		m.SetBody("text/plain", text)
		m.AddAlternative("text/html", html)
	} else {
		m.SetBody("text/html", html)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("send failed", "to", to, "subject", subject, "error", err)
		return "", provider.Errorf("email", "send", err)
	}
	s.logger.Info("email sent", "to", to, "subject", subject, "message_id", messageID)
	return messageID, nil
}

func newMessageID(from string) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i+1 < len(from) {
		domain = from[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

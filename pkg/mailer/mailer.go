package mailer

import (
	"fmt"
	"log"

	gomail "gopkg.in/gomail.v2"
)

// Sender delivers notification emails. Sends are best-effort everywhere in
// the marketplace: callers log failures and never let them fail the business
// operation that triggered the notification.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender is an SMTP implementation of Sender.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one HTML email.
func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	log.Printf("Email sent successfully to %s", to)
	return nil
}

// LogSender is a Sender that only logs; used when SMTP is not configured.
type LogSender struct{}

// Send logs the notification instead of delivering it.
func (LogSender) Send(to, subject, body string) error {
	log.Printf("NOTIFICATION (no SMTP configured) to=%s subject=%q", to, subject)
	return nil
}

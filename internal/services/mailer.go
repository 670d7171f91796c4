package services

import (
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/sagehill-community/activities-backend/internal/config"
)

// Mailer sends notification email over SMTP. It is the production Notifier;
// tests substitute a recorder.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
	}
}

// Send delivers one HTML message to the given recipients. Callers treat
// failures as non-fatal.
func (m *Mailer) Send(subject, htmlBody string, recipients []string) error {
	if m.from == "" {
		return errors.New("mailer: no sender address configured")
	}
	if len(recipients) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

package email

import (
	"gopkg.in/gomail.v2"

	"github.com/devmartyn/go-auth-api/internal/config"
)

// Sender delivers a single message. Implemented by the SMTP sender; tests
// substitute a recorder.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPSender delivers mail over SMTP via gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SenderEmail,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(m)
}

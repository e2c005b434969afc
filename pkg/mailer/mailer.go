package mailer

import (
	"tavolo/config"

	"gopkg.in/gomail.v2"
)

// SMTP sends HTML emails over the configured SMTP transport.
type SMTP struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTP(cfg *config.EmailConfig) *SMTP {
	return &SMTP{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (m *SMTP) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

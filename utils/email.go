package utils

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether SMTP is configured
func (c EmailConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// Sender delivers one message; gomail.Dialer satisfies it
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends HTML mail over SMTP
type Mailer struct {
	config EmailConfig
	sender Sender
}

// NewMailer builds a Mailer that dials the configured SMTP server
func NewMailer(config EmailConfig) *Mailer {
	return &Mailer{
		config: config,
		sender: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// NewMailerWithSender is used by tests to capture messages
func NewMailerWithSender(config EmailConfig, sender Sender) *Mailer {
	return &Mailer{config: config, sender: sender}
}

// SendEmail sends an HTML email
func (m *Mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

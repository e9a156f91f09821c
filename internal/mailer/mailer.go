// Package mailer sends transactional email to applicants over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/jonesrussell/moderation/internal/config"
)

// Mailer sends a single plain-text message. Send blocks until the message
// is handed to the SMTP server and returns an error on any failure; callers
// decide whether a failed send fails the surrounding operation.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer is the go-mail backed Mailer implementation.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// New creates an SMTPMailer from mail configuration. Authentication is
// enabled only when a username is configured.
func New(cfg config.MailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// Send delivers a plain-text message to a single recipient.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set mail sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set mail recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

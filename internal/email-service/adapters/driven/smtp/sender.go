package smtp

import (
	"context"
	"fmt"

	"taxi-booking/internal/config"
	"taxi-booking/internal/email-service/core/ports/driven"

	"github.com/wneessen/go-mail"
)

// Sender delivers mail through an authenticated SMTP relay (gmail by default).
type Sender struct {
	client *mail.Client
	from   string
}

func NewSender(cfg config.SMTPconfig) (driven.ISender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
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

	return &Sender{
		client: client,
		from:   cfg.From,
	}, nil
}

func (s *Sender) Send(ctx context.Context, recipient, subject, body string) error {
	msg, err := buildMessage(s.from, recipient, subject, body)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from, recipient, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

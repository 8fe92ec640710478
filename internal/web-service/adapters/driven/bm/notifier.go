package bm

import (
	"context"
	"encoding/json"
	"fmt"

	"taxi-booking/internal/common/messages"
	"taxi-booking/internal/common/rabbitmq"
	"taxi-booking/internal/web-service/core/ports/driven"
)

// Publisher is the part of the broker the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// Notifier hands emails to the email service through the broker.
type Notifier struct {
	pub   Publisher
	queue string
}

func NewNotifier(pub Publisher) driven.INotifier {
	return &Notifier{
		pub:   pub,
		queue: rabbitmq.EmailQueue,
	}
}

func (n *Notifier) Send(ctx context.Context, recipient, subject, body string) error {
	req := messages.SendEmailRequest{
		EmailTo: recipient,
		Subject: subject,
		Body:    body,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}
	return n.pub.Publish(ctx, n.queue, payload)
}

package driven

import "context"

// ISender delivers one plain-text email.
type ISender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

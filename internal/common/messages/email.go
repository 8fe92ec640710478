// Package messages holds the payloads exchanged over the broker.
package messages

import (
	"errors"
	"strings"
)

var ErrInvalidEmailRequest = errors.New("invalid email request")

// SendEmailRequest is published on the email_requests queue.
type SendEmailRequest struct {
	EmailTo string `json:"email_to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (r SendEmailRequest) Validate() error {
	to := strings.TrimSpace(r.EmailTo)
	if to == "" || strings.Count(to, "@") != 1 {
		return errors.Join(ErrInvalidEmailRequest, errors.New("recipient is not an email address"))
	}
	if strings.TrimSpace(r.Subject) == "" && strings.TrimSpace(r.Body) == "" {
		return errors.Join(ErrInvalidEmailRequest, errors.New("subject and body are empty"))
	}
	return nil
}

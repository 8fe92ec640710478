package myerrors

import "errors"

var (
	ErrInvalidRecipient = errors.New("invalid email recipient")
	ErrSendFailed       = errors.New("failed to send email")
)

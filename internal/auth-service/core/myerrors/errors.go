package myerrors

import "errors"

var (
	// ErrNotFound means no user matched; at login it stands for bad credentials.
	ErrNotFound        = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrStore           = errors.New("user store failure")
	ErrInvalidInput    = errors.New("invalid input")
	ErrFieldIsEmpty    = errors.New("field is empty")
)

package myerrors

import "errors"

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrDriverNotFound = errors.New("driver not found")
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidStatus  = errors.New("invalid driver status")
	ErrInvalidRating  = errors.New("invalid rating")
	ErrStore          = errors.New("store failure")
)

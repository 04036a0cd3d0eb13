package services

import "errors"

// Stable failure kinds surfaced by the service layer. Handlers map these to
// status codes in one place; nothing below the handlers speaks HTTP.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid request")
)

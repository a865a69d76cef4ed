package common

import "errors"

// Domain error kinds. Services wrap these with %w and context; handlers
// translate them to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("already exists")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUpload       = errors.New("upload failed")
	ErrDelivery     = errors.New("email could not be sent")
	ErrInternal     = errors.New("internal error")
)

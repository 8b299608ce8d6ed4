package service

import "errors"

// Error taxonomy surfaced to the API layer. Handlers map these to HTTP
// statuses; anything else is a gateway failure passed through verbatim.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnsupportedImage   = errors.New("unsupported image type")
)

package service

import "errors"

// Sentinel errors shared by all services. Handlers map these onto HTTP
// status codes with errors.Is; wrap with errors.Join to keep the cause.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("not the owner")
)

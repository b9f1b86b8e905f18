package apperrors

import "errors"

// Error kinds surfaced to callers. Everything else is wrapped detail.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrPageCountUnavailable = errors.New("page count unavailable")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrOpenSessionExists    = errors.New("open session already exists for shelf entry")
)

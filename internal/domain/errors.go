package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrRunLocked     = errors.New("another run holds the lock")
	ErrNoHotels      = errors.New("no hotels known")
	ErrFetchFailed   = errors.New("availability fetch failed")
	ErrNotifyFailed  = errors.New("notification failed")
)

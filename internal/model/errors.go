package model

import "errors"

var (
	// ErrNotFound covers missing rows and, deliberately, expired and
	// already-consumed credentials: callers cannot tell those apart.
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDelivery is returned bare when the notifier fails, so transport
	// details never reach the caller.
	ErrDelivery = errors.New("failed to deliver notification")
)

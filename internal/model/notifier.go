package model

import "context"

// Notifier delivers a magic link to an email address out-of-band. Failure
// is fatal to the issue operation and must not be swallowed.
type Notifier interface {
	Send(ctx context.Context, email, linkURL string) error
}

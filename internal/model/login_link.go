package model

import (
	"context"
	"time"
)

// LoginLinkTTL is how long an emailed magic link stays redeemable.
const LoginLinkTTL = 15 * time.Minute

// LoginLinkStore persists single-use magic links. GetValid and Consume
// only see links that are unconsumed and unexpired; everything else
// reports ErrNotFound, indistinguishable from a token that never existed.
type LoginLinkStore interface {
	Create(ctx context.Context, link LoginLink) error
	GetValid(ctx context.Context, token string) (LoginLink, error)
	// Consume flips the consumed flag. It is conditional on the link
	// still being valid, so of two racing verifications at most one
	// succeeds; the loser gets ErrNotFound.
	Consume(ctx context.Context, token string) error
}

// LoginLink is a single-use login credential delivered by email. The
// consumed flag only ever moves false to true.
type LoginLink struct {
	Token     string
	Email     string
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}

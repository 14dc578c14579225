package model

import (
	"context"
	"time"
)

// SessionTTL is the fixed absolute lifetime of a session. Expiry is set
// at creation and never extended.
const SessionTTL = 30 * 24 * time.Hour

// SessionStore persists sessions. GetValid filters expired sessions at
// read time; no background reaper runs.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetValid(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// Session is a bounded-lifetime proof of authenticated identity minted
// after a successful link verification. Email is resolved from the
// owning user on lookup.
type Session struct {
	Token     string
	UserID    int64
	Email     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, email string) (User, error)
	GetOrCreate(ctx context.Context, email string) (User, error)
}

// User is the identity anchor. A user record is materialized on the first
// successful magic link verification for an email and is never deleted.
type User struct {
	ID        int64
	Email     string
	CreatedAt time.Time
}

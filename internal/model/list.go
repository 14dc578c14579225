package model

import (
	"context"
	"time"
)

// ListStore defines persistence operations for task lists.
type ListStore interface {
	List(ctx context.Context, userID int64) ([]List, error)
	Create(ctx context.Context, userID int64, name string) (List, error)
	// Delete removes a list; tasks in it are detached, not deleted.
	Delete(ctx context.Context, id, userID int64) error
}

// List groups tasks for one user.
type List struct {
	ID        int64
	UserID    int64
	Name      string
	Position  int
	CreatedAt time.Time
}

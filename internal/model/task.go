package model

import (
	"context"
	"time"
)

// TaskStore defines persistence operations for tasks. All operations are
// scoped by the owning user.
type TaskStore interface {
	List(ctx context.Context, userID int64, listID *int64) ([]Task, error)
	Get(ctx context.Context, id, userID int64) (Task, error)
	Create(ctx context.Context, task Task) (Task, error)
	Update(ctx context.Context, id, userID int64, update TaskUpdate) error
	Delete(ctx context.Context, id, userID int64) error
}

// Task is a single to-do item, optionally placed in a list and optionally
// nested under a parent task. DueDate is either "YYYY-MM-DD" or a full
// timestamp "YYYY-MM-DDTHH:MM:SS".
type Task struct {
	ID          int64
	UserID      int64
	ListID      *int64
	Title       string
	Notes       *string
	DueDate     *string
	Completed   bool
	CompletedAt *time.Time
	Position    int
	ParentID    *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title     *string
	Notes     *string
	DueDate   *string
	Completed *bool
	Position  *int
	ListID    *int64
}

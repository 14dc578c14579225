package model

import "context"

// TaskDueEvent is published when a task gains a due date, so the
// calendar consumer can mirror it.
type TaskDueEvent struct {
	TaskID  int64  `json:"task_id"`
	Title   string `json:"title"`
	Notes   string `json:"notes,omitempty"`
	DueDate string `json:"due_date"`
}

// EventPublisher hands domain events to the message broker. Publishing
// is best-effort: callers log failures and carry on, the triggering
// mutation is never rolled back.
type EventPublisher interface {
	PublishTaskDue(ctx context.Context, event TaskDueEvent) error
}

// Calendar mirrors due tasks into an external calendar. Outcomes are
// ignored by the request path; only the consumer looks at the error.
type Calendar interface {
	CreateEvent(ctx context.Context, title, dueDate, notes string) error
}

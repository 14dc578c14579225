package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
)

// publishTimeout bounds the detached publish; the request that triggered
// it has usually already returned.
const publishTimeout = 5 * time.Second

// Task implements task CRUD. Mutations that set a due date are mirrored
// into the calendar via the event publisher; the mirror outcome never
// affects the mutation result.
type Task struct {
	tasks  model.TaskStore
	events model.EventPublisher
	logger *logger.Logger
}

func NewTask(tasks model.TaskStore, events model.EventPublisher, logger *logger.Logger) *Task {
	return &Task{tasks: tasks, events: events, logger: logger}
}

func (s *Task) List(ctx context.Context, userID int64, listID *int64) ([]model.Task, error) {
	tasks, err := s.tasks.List(ctx, userID, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Task) Get(ctx context.Context, id, userID int64) (model.Task, error) {
	return s.tasks.Get(ctx, id, userID)
}

func (s *Task) Create(ctx context.Context, task model.Task) (model.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return model.Task{}, fmt.Errorf("title required: %w", model.ErrValidation)
	}

	saved, err := s.tasks.Create(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	if saved.DueDate != nil && *saved.DueDate != "" {
		s.mirrorDue(saved)
	}
	return saved, nil
}

func (s *Task) Update(ctx context.Context, id, userID int64, update model.TaskUpdate) (model.Task, error) {
	if _, err := s.tasks.Get(ctx, id, userID); err != nil {
		return model.Task{}, err
	}

	if err := s.tasks.Update(ctx, id, userID, update); err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.tasks.Get(ctx, id, userID)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to reload task: %w", err)
	}

	if update.DueDate != nil && *update.DueDate != "" {
		s.mirrorDue(updated)
	}
	return updated, nil
}

func (s *Task) Delete(ctx context.Context, id, userID int64) error {
	return s.tasks.Delete(ctx, id, userID)
}

// mirrorDue publishes the due event from a detached goroutine with its
// own deadline. Failures are logged and dropped.
func (s *Task) mirrorDue(task model.Task) {
	event := model.TaskDueEvent{
		TaskID:  task.ID,
		Title:   task.Title,
		DueDate: *task.DueDate,
	}
	if task.Notes != nil {
		event.Notes = *task.Notes
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.events.PublishTaskDue(ctx, event); err != nil {
			s.logger.Error("Task service: failed to publish due event",
				"task_id", event.TaskID,
				"error", err.Error())
		}
	}()
}

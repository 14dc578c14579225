package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmarkhas/tasklane-server/internal/model"
)

var _ model.TaskStore = (*TaskRepository)(nil)

const taskColumns = `id, user_id, list_id, title, notes, due_date, completed, completed_at, position, parent_id, created_at, updated_at`

type TaskRepository struct {
	db *Connection
}

func NewTaskRepository(db *Connection) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns the user's top-level tasks, optionally restricted to one
// list. Open tasks come first, ordered by position, newest created first
// within equal positions.
func (r *TaskRepository) List(ctx context.Context, userID int64, listID *int64) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE user_id = $1 AND parent_id IS NULL
        ORDER BY completed ASC, position ASC, created_at DESC
    `
	args := []any{userID}
	if listID != nil {
		query = `
            SELECT ` + taskColumns + `
            FROM tasks
            WHERE user_id = $1 AND list_id = $2 AND parent_id IS NULL
            ORDER BY completed ASC, position ASC, created_at DESC
        `
		args = append(args, *listID)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id, userID int64) (model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	query := `
        INSERT INTO tasks (user_id, list_id, title, notes, due_date, parent_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + taskColumns

	saved, err := scanTask(r.db.QueryRow(ctx, query,
		task.UserID, task.ListID, task.Title, task.Notes, task.DueDate, task.ParentID,
	))
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return saved, nil
}

// Update applies the non-nil fields of the update. Completing a task
// also stamps completed_at; reopening clears it.
func (r *TaskRepository) Update(ctx context.Context, id, userID int64, update model.TaskUpdate) error {
	fields := make([]string, 0, 8)
	args := make([]any, 0, 8)
	add := func(column string, value any) {
		args = append(args, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Notes != nil {
		add("notes", *update.Notes)
	}
	if update.DueDate != nil {
		add("due_date", *update.DueDate)
	}
	if update.Completed != nil {
		add("completed", *update.Completed)
		if *update.Completed {
			add("completed_at", time.Now())
		} else {
			add("completed_at", nil)
		}
	}
	if update.Position != nil {
		add("position", *update.Position)
	}
	if update.ListID != nil {
		add("list_id", *update.ListID)
	}
	add("updated_at", time.Now())

	args = append(args, id, userID)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(fields, ", "), len(args)-1, len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes a task and its subtasks.
func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE parent_id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("failed to delete subtasks: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID, &task.UserID, &task.ListID, &task.Title, &task.Notes, &task.DueDate,
		&task.Completed, &task.CompletedAt, &task.Position, &task.ParentID,
		&task.CreatedAt, &task.UpdatedAt,
	)
	return task, err
}

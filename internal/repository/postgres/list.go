package postgres

import (
	"context"
	"fmt"

	"github.com/dmarkhas/tasklane-server/internal/model"
)

var _ model.ListStore = (*ListRepository)(nil)

type ListRepository struct {
	db *Connection
}

func NewListRepository(db *Connection) *ListRepository {
	return &ListRepository{db: db}
}

func (r *ListRepository) List(ctx context.Context, userID int64) ([]model.List, error) {
	const query = `
        SELECT id, user_id, name, position, created_at
        FROM lists
        WHERE user_id = $1
        ORDER BY position ASC
    `

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	lists := make([]model.List, 0)
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Position, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lists: %w", err)
	}
	return lists, nil
}

func (r *ListRepository) Create(ctx context.Context, userID int64, name string) (model.List, error) {
	const query = `
        INSERT INTO lists (user_id, name)
        VALUES ($1, $2)
        RETURNING id, user_id, name, position, created_at
    `

	var l model.List
	if err := r.db.QueryRow(ctx, query, userID, name).Scan(
		&l.ID, &l.UserID, &l.Name, &l.Position, &l.CreatedAt,
	); err != nil {
		return model.List{}, fmt.Errorf("failed to create list: %w", err)
	}
	return l, nil
}

// Delete detaches the list's tasks before removing the list itself.
func (r *ListRepository) Delete(ctx context.Context, id, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE tasks SET list_id = NULL WHERE list_id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("failed to detach tasks: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM lists WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmarkhas/tasklane-server/internal/model"
)

// Ensure LoginLinkRepository implements the model.LoginLinkStore interface.
var _ model.LoginLinkStore = (*LoginLinkRepository)(nil)

type LoginLinkRepository struct {
	db *Connection
}

func NewLoginLinkRepository(db *Connection) *LoginLinkRepository {
	return &LoginLinkRepository{db: db}
}

func (r *LoginLinkRepository) Create(ctx context.Context, link model.LoginLink) error {
	const query = `
        INSERT INTO login_links (token, email, expires_at, consumed)
        VALUES ($1, $2, $3, FALSE)
    `

	if _, err := r.db.Exec(ctx, query, link.Token, link.Email, link.ExpiresAt); err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to create login link: %w", err)
	}
	return nil
}

// GetValid returns a link only while it is unconsumed and unexpired.
// Consumed and expired records report ErrNotFound exactly like tokens
// that were never issued.
func (r *LoginLinkRepository) GetValid(ctx context.Context, token string) (model.LoginLink, error) {
	const query = `
        SELECT token, email, expires_at, consumed, created_at
        FROM login_links
        WHERE token = $1 AND consumed = FALSE AND expires_at > now()
    `
	var link model.LoginLink
	if err := r.db.QueryRow(ctx, query, token).Scan(
		&link.Token,
		&link.Email,
		&link.ExpiresAt,
		&link.Consumed,
		&link.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LoginLink{}, model.ErrNotFound
		}
		return model.LoginLink{}, fmt.Errorf("failed to get login link: %w", err)
	}
	return link, nil
}

// Consume marks the link used with a single conditional update, so two
// racing verifications of the same token cannot both pass. The affected
// row count tells the loser apart.
func (r *LoginLinkRepository) Consume(ctx context.Context, token string) error {
	const query = `
        UPDATE login_links
        SET consumed = TRUE
        WHERE token = $1 AND consumed = FALSE AND expires_at > now()
    `
	tag, err := r.db.Exec(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to consume login link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

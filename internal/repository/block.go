package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"devshare/internal/model"
)

type blockRepository struct {
	db *sqlx.DB
}

func NewBlockRepository(db *sqlx.DB) BlockRepository {
	return &blockRepository{db: db}
}

// Block inserts the block edge and removes any follow edges between the two
// users in either direction. Both happen in one transaction so the invariant
// "a block implies no follow" holds at every commit point.
func (r *blockRepository) Block(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("failed to create block: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM follows
		WHERE (follower_id = $1 AND followee_id = $2)
		   OR (follower_id = $2 AND followee_id = $1)
	`, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("failed to remove follow edges: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return true, nil
}

func (r *blockRepository) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`, blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotBlocked
	}

	return nil
}

func (r *blockRepository) ExistsBetween(ctx context.Context, a, b int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, a, b)
	if err != nil {
		return false, fmt.Errorf("failed to check block existence: %w", err)
	}
	return exists, nil
}

func (r *blockRepository) ListBlocked(ctx context.Context, blockerID int64) ([]model.UserSummary, error) {
	query := `
		SELECT u.id, u.username, u.display_name
		FROM blocks b
		JOIN users u ON u.id = b.blocked_id
		WHERE b.blocker_id = $1
		ORDER BY b.created_at DESC
	`
	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, query, blockerID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list blocked users: %w", err)
	}
	return users, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"devshare/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, kind model.ItemKind, itemID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	query := `
		INSERT INTO comments (item_kind, item_id, user_id, content, parent_comment_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, item_kind, item_id, user_id, content, parent_comment_id, created_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, kind, itemID, userID, content, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, item_kind, item_id, user_id, content, parent_comment_id, created_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *commentRepository) ListByItem(ctx context.Context, kind model.ItemKind, itemID int64, cursor *string, limit int) ([]model.Comment, *string, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `
			SELECT c.id, c.item_kind, c.item_id, c.user_id, c.content, c.parent_comment_id, c.created_at
			FROM comments c
			WHERE c.item_kind = $1 AND c.item_id = $2
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $3
		`
		args = []interface{}{kind, itemID, limit + 1}
	} else {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}
		query = `
			SELECT c.id, c.item_kind, c.item_id, c.user_id, c.content, c.parent_comment_id, c.created_at
			FROM comments c
			WHERE c.item_kind = $1 AND c.item_id = $2
			  AND (c.created_at, c.id) < ($3, $4)
			ORDER BY c.created_at DESC, c.id DESC
			LIMIT $5
		`
		args = []interface{}{kind, itemID, ts, id, limit + 1}
	}

	var comments []model.Comment
	err := r.db.SelectContext(ctx, &comments, query, args...)
	if err != nil && err != sql.ErrNoRows {
		return nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}

	var nextCursor *string
	if len(comments) > limit {
		comments = comments[:limit]
		last := comments[len(comments)-1]
		c := formatCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}

	// Hydrate authors with one batch query instead of per-comment lookups.
	authorIDSet := make(map[int64]struct{})
	for _, c := range comments {
		authorIDSet[c.UserID] = struct{}{}
	}
	authorIDs := make([]int64, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}
	summaries, err := summariesByIDs(ctx, r.db, authorIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[int64]model.UserSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	for i := range comments {
		if s, ok := byID[comments[i].UserID]; ok {
			author := s
			comments[i].Author = &author
		}
	}

	return comments, nextCursor, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devshare/internal/model"
)

type interactionRepository struct {
	db *sqlx.DB
}

func NewInteractionRepository(db *sqlx.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// Edge tables per (kind, edge type). Snippet and document IDs live in
// separate sequences, so the edges are kept in separate tables rather than a
// polymorphic one.
func likeTable(kind model.ItemKind) (table, idColumn string, err error) {
	switch kind {
	case model.KindSnippet:
		return "snippet_likes", "snippet_id", nil
	case model.KindDocument:
		return "document_likes", "document_id", nil
	default:
		return "", "", model.ErrInvalidKind
	}
}

func saveTable(kind model.ItemKind) (table, idColumn string, err error) {
	switch kind {
	case model.KindSnippet:
		return "snippet_saves", "snippet_id", nil
	case model.KindDocument:
		return "document_saves", "document_id", nil
	default:
		return "", "", model.ErrInvalidKind
	}
}

func (r *interactionRepository) Like(ctx context.Context, kind model.ItemKind, itemID, userID int64) (bool, error) {
	table, idCol, err := likeTable(kind)
	if err != nil {
		return false, err
	}
	return r.insertEdge(ctx, table, idCol, itemID, userID)
}

func (r *interactionRepository) Unlike(ctx context.Context, kind model.ItemKind, itemID, userID int64) error {
	table, idCol, err := likeTable(kind)
	if err != nil {
		return err
	}
	return r.deleteEdge(ctx, table, idCol, itemID, userID, model.ErrNotLiked)
}

func (r *interactionRepository) Save(ctx context.Context, kind model.ItemKind, itemID, userID int64) (bool, error) {
	table, idCol, err := saveTable(kind)
	if err != nil {
		return false, err
	}
	return r.insertEdge(ctx, table, idCol, itemID, userID)
}

func (r *interactionRepository) Unsave(ctx context.Context, kind model.ItemKind, itemID, userID int64) error {
	table, idCol, err := saveTable(kind)
	if err != nil {
		return err
	}
	return r.deleteEdge(ctx, table, idCol, itemID, userID, model.ErrNotSaved)
}

func (r *interactionRepository) insertEdge(ctx context.Context, table, idCol string, itemID, userID int64) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, user_id)
		VALUES ($1, $2)
		ON CONFLICT (%s, user_id) DO NOTHING
	`, table, idCol, idCol)
	result, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to insert %s edge: %w", table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *interactionRepository) deleteEdge(ctx context.Context, table, idCol string, itemID, userID int64, notFound error) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND user_id = $2`, table, idCol)
	result, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete %s edge: %w", table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func (r *interactionRepository) ListLikedIDs(ctx context.Context, userID int64, kind model.ItemKind) ([]int64, error) {
	table, idCol, err := likeTable(kind)
	if err != nil {
		return nil, err
	}
	return r.listEdgeIDs(ctx, table, idCol, userID)
}

func (r *interactionRepository) ListSavedIDs(ctx context.Context, userID int64, kind model.ItemKind) ([]int64, error) {
	table, idCol, err := saveTable(kind)
	if err != nil {
		return nil, err
	}
	return r.listEdgeIDs(ctx, table, idCol, userID)
}

func (r *interactionRepository) listEdgeIDs(ctx context.Context, table, idCol string, userID int64) ([]int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1`, idCol, table)
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return ids, nil
}

func (r *interactionRepository) CheckLikes(ctx context.Context, userID int64, kind model.ItemKind, itemIDs []int64) (map[int64]bool, error) {
	table, idCol, err := likeTable(kind)
	if err != nil {
		return nil, err
	}
	return r.checkEdges(ctx, table, idCol, userID, itemIDs)
}

func (r *interactionRepository) CheckSaves(ctx context.Context, userID int64, kind model.ItemKind, itemIDs []int64) (map[int64]bool, error) {
	table, idCol, err := saveTable(kind)
	if err != nil {
		return nil, err
	}
	return r.checkEdges(ctx, table, idCol, userID, itemIDs)
}

func (r *interactionRepository) checkEdges(ctx context.Context, table, idCol string, userID int64, itemIDs []int64) (map[int64]bool, error) {
	if len(itemIDs) == 0 {
		return make(map[int64]bool), nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 AND %s = ANY($2)`, idCol, table, idCol)
	var matched []int64
	err := r.db.SelectContext(ctx, &matched, query, userID, pq.Array(itemIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check %s: %w", table, err)
	}

	result := make(map[int64]bool)
	for _, id := range itemIDs {
		result[id] = false
	}
	for _, id := range matched {
		result[id] = true
	}

	return result, nil
}

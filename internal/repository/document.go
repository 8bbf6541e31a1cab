package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devshare/internal/model"
)

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

const documentSelect = `
	SELECT d.id, d.author_id, d.title, d.body, d.tags, d.created_at, d.updated_at,
	       (SELECT COUNT(*) FROM document_likes l WHERE l.document_id = d.id) AS likes_count,
	       (SELECT COUNT(*) FROM comments c WHERE c.item_kind = 'document' AND c.item_id = d.id) AS comments_count
	FROM documents d
`

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	query := `
		INSERT INTO documents (author_id, title, body, tags)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		doc.AuthorID, doc.Title, doc.Body, doc.Tags,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	var doc model.Document
	query := documentSelect + `WHERE d.id = $1`
	err := r.db.GetContext(ctx, &doc, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (r *documentRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := documentSelect + `WHERE d.id = ANY($1)`
	var docs []model.Document
	err := r.db.SelectContext(ctx, &docs, query, pq.Array(ids))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, id, authorID int64, req *model.UpdateDocumentRequest) (*model.Document, error) {
	var tags interface{}
	if req.Tags != nil {
		tags = pq.StringArray(req.Tags)
	}
	query := `
		UPDATE documents
		SET title = COALESCE($3, title),
		    body = COALESCE($4, body),
		    tags = COALESCE($5, tags),
		    updated_at = NOW()
		WHERE id = $1 AND author_id = $2
		RETURNING id
	`
	var updatedID int64
	err := r.db.GetContext(ctx, &updatedID, query, id, authorID, req.Title, req.Body, tags)
	if err == sql.ErrNoRows {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return r.GetByID(ctx, updatedID)
}

func (r *documentRepository) Delete(ctx context.Context, id, authorID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrItemNotFound
	}
	return nil
}

func (r *documentRepository) GetAuthorID(ctx context.Context, id int64) (int64, error) {
	var authorID int64
	err := r.db.GetContext(ctx, &authorID,
		`SELECT author_id FROM documents WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return 0, model.ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get document author: %w", err)
	}
	return authorID, nil
}

func (r *documentRepository) ListByAuthor(ctx context.Context, authorID int64, cursor *string, limit int) ([]model.Document, *string, error) {
	conditions := []string{"d.author_id = $1"}
	args := []interface{}{authorID}

	if cursor != nil {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}
		args = append(args, ts, id)
		conditions = append(conditions,
			fmt.Sprintf("(d.created_at, d.id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	args = append(args, limit+1)
	query := documentSelect +
		"WHERE " + strings.Join(conditions, " AND ") +
		fmt.Sprintf(" ORDER BY d.created_at DESC, d.id DESC LIMIT $%d", len(args))

	var docs []model.Document
	err := r.db.SelectContext(ctx, &docs, query, args...)
	if err != nil && err != sql.ErrNoRows {
		return nil, nil, fmt.Errorf("failed to list documents: %w", err)
	}

	var nextCursor *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		c := formatCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}

	return docs, nextCursor, nil
}

func (r *documentRepository) ListAuthoredIDs(ctx context.Context, authorID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM documents WHERE author_id = $1`, authorID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list authored document ids: %w", err)
	}
	return ids, nil
}

func (r *documentRepository) ListTagsForIDs(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []string
	err := r.db.SelectContext(ctx, &tags,
		`SELECT DISTINCT unnest(tags) FROM documents WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list document tags: %w", err)
	}
	return tags, nil
}

func (r *documentRepository) ListPublicWithAnyTag(ctx context.Context, tags []string, excluding []int64, limit int) ([]model.Document, error) {
	query := documentSelect + `
		JOIN users u ON u.id = d.author_id
		WHERE NOT u.is_suspended
		  AND d.tags && $1
		  AND NOT (d.id = ANY($2))
		ORDER BY likes_count DESC, d.created_at ASC, d.id ASC
		LIMIT $3
	`
	var docs []model.Document
	err := r.db.SelectContext(ctx, &docs, query, pq.Array(tags), pq.Array(excluding), limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list documents by tags: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) ListPublicByPopularity(ctx context.Context, excluding []int64, limit int) ([]model.Document, error) {
	query := documentSelect + `
		JOIN users u ON u.id = d.author_id
		WHERE NOT u.is_suspended
		  AND NOT (d.id = ANY($1))
		ORDER BY likes_count DESC, d.created_at ASC, d.id ASC
		LIMIT $2
	`
	var docs []model.Document
	err := r.db.SelectContext(ctx, &docs, query, pq.Array(excluding), limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list documents by popularity: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM documents WHERE author_id = $1`, authorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

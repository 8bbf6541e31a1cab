package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devshare/internal/model"
)

type snippetRepository struct {
	db *sqlx.DB
}

func NewSnippetRepository(db *sqlx.DB) SnippetRepository {
	return &snippetRepository{db: db}
}

// snippetSelect embeds the live count aggregates. Counts are recomputed on
// every query; there are no maintained counter columns.
const snippetSelect = `
	SELECT s.id, s.author_id, s.title, s.code, s.language, s.tags, s.visibility,
	       s.created_at, s.updated_at,
	       (SELECT COUNT(*) FROM snippet_likes l WHERE l.snippet_id = s.id) AS likes_count,
	       (SELECT COUNT(*) FROM comments c WHERE c.item_kind = 'snippet' AND c.item_id = s.id) AS comments_count
	FROM snippets s
`

func (r *snippetRepository) Create(ctx context.Context, snippet *model.Snippet) error {
	query := `
		INSERT INTO snippets (author_id, title, code, language, tags, visibility)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		snippet.AuthorID, snippet.Title, snippet.Code, snippet.Language,
		snippet.Tags, snippet.Visibility,
	).Scan(&snippet.ID, &snippet.CreatedAt, &snippet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create snippet: %w", err)
	}
	return nil
}

func (r *snippetRepository) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	var snippet model.Snippet
	query := snippetSelect + `WHERE s.id = $1`
	err := r.db.GetContext(ctx, &snippet, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snippet: %w", err)
	}
	return &snippet, nil
}

func (r *snippetRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Snippet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := snippetSelect + `WHERE s.id = ANY($1)`
	var snippets []model.Snippet
	err := r.db.SelectContext(ctx, &snippets, query, pq.Array(ids))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get snippets: %w", err)
	}
	return snippets, nil
}

func (r *snippetRepository) Update(ctx context.Context, id, authorID int64, req *model.UpdateSnippetRequest) (*model.Snippet, error) {
	var tags interface{}
	if req.Tags != nil {
		tags = pq.StringArray(req.Tags)
	}
	query := `
		UPDATE snippets
		SET title = COALESCE($3, title),
		    code = COALESCE($4, code),
		    language = COALESCE($5, language),
		    tags = COALESCE($6, tags),
		    visibility = COALESCE($7, visibility),
		    updated_at = NOW()
		WHERE id = $1 AND author_id = $2
		RETURNING id
	`
	var updatedID int64
	err := r.db.GetContext(ctx, &updatedID, query, id, authorID,
		req.Title, req.Code, req.Language, tags, req.Visibility)
	if err == sql.ErrNoRows {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update snippet: %w", err)
	}
	return r.GetByID(ctx, updatedID)
}

func (r *snippetRepository) Delete(ctx context.Context, id, authorID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete snippet: %w", err)
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

func (r *snippetRepository) GetOwnership(ctx context.Context, id int64) (int64, bool, error) {
	var row struct {
		AuthorID   int64  `db:"author_id"`
		Visibility string `db:"visibility"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT author_id, visibility FROM snippets WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return 0, false, model.ErrItemNotFound
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get snippet ownership: %w", err)
	}
	return row.AuthorID, row.Visibility == model.VisibilityPrivate, nil
}

func (r *snippetRepository) ListByAuthor(ctx context.Context, authorID int64, includePrivate bool, cursor *string, limit int) ([]model.Snippet, *string, error) {
	conditions := []string{"s.author_id = $1"}
	args := []interface{}{authorID}

	if !includePrivate {
		conditions = append(conditions, "s.visibility = 'public'")
	}

	if cursor != nil {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}
		args = append(args, ts, id)
		conditions = append(conditions,
			fmt.Sprintf("(s.created_at, s.id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	args = append(args, limit+1)
	query := snippetSelect +
		"WHERE " + strings.Join(conditions, " AND ") +
		fmt.Sprintf(" ORDER BY s.created_at DESC, s.id DESC LIMIT $%d", len(args))

	var snippets []model.Snippet
	err := r.db.SelectContext(ctx, &snippets, query, args...)
	if err != nil && err != sql.ErrNoRows {
		return nil, nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	var nextCursor *string
	if len(snippets) > limit {
		snippets = snippets[:limit]
		last := snippets[len(snippets)-1]
		c := formatCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}

	return snippets, nextCursor, nil
}

func (r *snippetRepository) ListAuthoredIDs(ctx context.Context, authorID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM snippets WHERE author_id = $1`, authorID)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list authored snippet ids: %w", err)
	}
	return ids, nil
}

func (r *snippetRepository) ListTagsForIDs(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []string
	err := r.db.SelectContext(ctx, &tags,
		`SELECT DISTINCT unnest(tags) FROM snippets WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list snippet tags: %w", err)
	}
	return tags, nil
}

// ListPublicWithAnyTag is the tag-matched recommendation candidate query.
// Tag overlap uses the array && operator (has at least one, not has all).
// Ordering is the engine's contract: like-count desc, then created_at asc,
// then id asc, so repeated calls over unchanged data return the same list.
func (r *snippetRepository) ListPublicWithAnyTag(ctx context.Context, tags []string, excluding []int64, limit int) ([]model.Snippet, error) {
	query := snippetSelect + `
		JOIN users u ON u.id = s.author_id
		WHERE s.visibility = 'public'
		  AND NOT u.is_suspended
		  AND s.tags && $1
		  AND NOT (s.id = ANY($2))
		ORDER BY likes_count DESC, s.created_at ASC, s.id ASC
		LIMIT $3
	`
	var snippets []model.Snippet
	err := r.db.SelectContext(ctx, &snippets, query,
		pq.Array(tags), pq.Array(excluding), limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list snippets by tags: %w", err)
	}
	return snippets, nil
}

// ListPublicByPopularity is the cold-start fallback query: same ordering and
// exclusion as the tag-matched path, no tag filter.
func (r *snippetRepository) ListPublicByPopularity(ctx context.Context, excluding []int64, limit int) ([]model.Snippet, error) {
	query := snippetSelect + `
		JOIN users u ON u.id = s.author_id
		WHERE s.visibility = 'public'
		  AND NOT u.is_suspended
		  AND NOT (s.id = ANY($1))
		ORDER BY likes_count DESC, s.created_at ASC, s.id ASC
		LIMIT $2
	`
	var snippets []model.Snippet
	err := r.db.SelectContext(ctx, &snippets, query, pq.Array(excluding), limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to list snippets by popularity: %w", err)
	}
	return snippets, nil
}

func (r *snippetRepository) CountByAuthor(ctx context.Context, authorID int64, includePrivate bool) (int, error) {
	query := `SELECT COUNT(*) FROM snippets WHERE author_id = $1`
	if !includePrivate {
		query += ` AND visibility = 'public'`
	}
	var count int
	err := r.db.GetContext(ctx, &count, query, authorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count snippets: %w", err)
	}
	return count, nil
}

// parseCursor parses the compound "id:timestamp" cursor.
func parseCursor(cursor string) (time.Time, int64, error) {
	parts := strings.Split(cursor, ":")
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid cursor format")
	}
	var id int64
	var ts int64
	_, err := fmt.Sscanf(parts[0], "%d", &id)
	if err != nil {
		return time.Time{}, 0, err
	}
	_, err = fmt.Sscanf(parts[1], "%d", &ts)
	if err != nil {
		return time.Time{}, 0, err
	}
	return time.Unix(ts, 0), id, nil
}

// formatCursor builds the compound "id:timestamp" cursor.
func formatCursor(t time.Time, id int64) string {
	return fmt.Sprintf("%d:%d", id, t.Unix())
}

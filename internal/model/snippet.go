package model

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// Snippet represents a shared code snippet. LikesCount and CommentsCount are
// live relational aggregates computed at query time, not maintained counters.
type Snippet struct {
	ID            int64          `db:"id" json:"id"`
	AuthorID      int64          `db:"author_id" json:"author_id"`
	Title         string         `db:"title" json:"title"`
	Code          string         `db:"code" json:"code"`
	Language      *string        `db:"language" json:"language"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	Visibility    string         `db:"visibility" json:"visibility"`
	LikesCount    int            `db:"likes_count" json:"likes_count"`
	CommentsCount int            `db:"comments_count" json:"comments_count"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`

	// Joined fields (not in the snippets table)
	Author  *UserSummary `json:"author,omitempty"`
	IsLiked bool         `json:"is_liked"`
	IsSaved bool         `json:"is_saved"`
}

// CreateSnippetRequest is the request body for creating a snippet.
type CreateSnippetRequest struct {
	Title      string   `json:"title"`
	Code       string   `json:"code"`
	Language   *string  `json:"language"`
	Tags       []string `json:"tags"`
	Visibility string   `json:"visibility"`
}

// UpdateSnippetRequest is the request body for updating a snippet. Nil fields
// are left unchanged.
type UpdateSnippetRequest struct {
	Title      *string  `json:"title"`
	Code       *string  `json:"code"`
	Language   *string  `json:"language"`
	Tags       []string `json:"tags"`
	Visibility *string  `json:"visibility"`
}

// SnippetListResponse is the paginated snippet list response.
type SnippetListResponse struct {
	Snippets   []Snippet `json:"snippets"`
	NextCursor *string   `json:"next_cursor,omitempty"`
	HasMore    bool      `json:"has_more"`
}

// Snippet constraints
const (
	MaxSnippetTitleLength = 200
	MaxSnippetCodeLength  = 100 * 1024
	MaxTagsPerItem        = 20
	MaxTagLength          = 50
)

// Snippet errors
var (
	ErrTitleRequired     = errors.New("title is required")
	ErrCodeRequired      = errors.New("code is required")
	ErrTitleTooLong      = errors.New("title too long")
	ErrCodeTooLong       = errors.New("code too long")
	ErrTooManyTags       = errors.New("too many tags")
	ErrTagTooLong        = errors.New("tag too long")
	ErrInvalidVisibility = errors.New("invalid visibility")
)

package model

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// Document represents a long-form post. Documents are always public; there is
// no visibility flag. Counts are live aggregates, same as on Snippet.
type Document struct {
	ID            int64          `db:"id" json:"id"`
	AuthorID      int64          `db:"author_id" json:"author_id"`
	Title         string         `db:"title" json:"title"`
	Body          string         `db:"body" json:"body"` // markdown source; rendering is out of scope
	Tags          pq.StringArray `db:"tags" json:"tags"`
	LikesCount    int            `db:"likes_count" json:"likes_count"`
	CommentsCount int            `db:"comments_count" json:"comments_count"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`

	Author  *UserSummary `json:"author,omitempty"`
	IsLiked bool         `json:"is_liked"`
	IsSaved bool         `json:"is_saved"`
}

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	Title *string  `json:"title"`
	Body  *string  `json:"body"`
	Tags  []string `json:"tags"`
}

// DocumentListResponse is the paginated document list response.
type DocumentListResponse struct {
	Documents  []Document `json:"documents"`
	NextCursor *string    `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// Document constraints
const (
	MaxDocumentTitleLength = 300
	MaxDocumentBodyLength  = 500 * 1024
)

// Document errors
var (
	ErrBodyRequired = errors.New("body is required")
	ErrBodyTooLong  = errors.New("body too long")
)

package model

import "time"

// Notification types
const (
	NotificationTypeFollow  = "follow"
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

// Notification represents a single notification record. Rows are written by
// the activity worker, never inline in request handlers.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"` // Recipient
	ActorID   int64     `db:"actor_id" json:"actor_id"`
	Type      string    `db:"type" json:"type"`
	ItemKind  *ItemKind `db:"item_kind" json:"item_kind,omitempty"`
	ItemID    *int64    `db:"item_id" json:"item_id,omitempty"`
	CommentID *int64    `db:"comment_id" json:"comment_id,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined field for display
	Actor *UserSummary `json:"actor,omitempty"`
}

// NotificationListResponse is the paginated notification list response.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	NextCursor    *string        `json:"next_cursor,omitempty"`
	HasMore       bool           `json:"has_more"`
	UnreadCount   int            `json:"unread_count"`
}

// MarkReadRequest is the request body for marking notifications as read.
type MarkReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids"`
}

package model

import (
	"errors"
	"time"
)

// Block is a directed edge suppressing all visibility between two users.
// A block in either direction overrides every other relation, including
// follows. Creating a block removes follow edges in both directions in the
// same transaction.
type Block struct {
	BlockerID int64     `db:"blocker_id" json:"blocker_id"`
	BlockedID int64     `db:"blocked_id" json:"blocked_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BlockListResponse lists the users the current user has blocked.
type BlockListResponse struct {
	Users []UserSummary `json:"users"`
}

var (
	ErrAlreadyBlocked  = errors.New("already blocked this user")
	ErrNotBlocked      = errors.New("not blocking this user")
	ErrCannotBlockSelf = errors.New("cannot block yourself")

	// ErrInteractionBlocked is returned when a block edge in either direction
	// prevents an action between two users
	ErrInteractionBlocked = errors.New("interaction not allowed")
)

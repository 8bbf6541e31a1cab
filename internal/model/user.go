package model

import (
	"errors"
	"time"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the system. Accounts are created on a
// user's first verified login through the external identity provider; the
// username stays nil until the user claims one (or a worker assigns a
// placeholder).
type User struct {
	ID          int64     `db:"id" json:"id"`
	IdpSubject  string    `db:"idp_subject" json:"-"`
	Username    *string   `db:"username" json:"username"`
	DisplayName *string   `db:"display_name" json:"display_name"`
	Bio         *string   `db:"bio" json:"bio"`
	Role        string    `db:"role" json:"role"`
	IsSuspended bool      `db:"is_suspended" json:"-"` // account-level suspension, not user-to-user blocking
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is a lightweight user representation for lists and joins.
type UserSummary struct {
	ID          int64   `db:"id" json:"id"`
	Username    *string `db:"username" json:"username"`
	DisplayName *string `db:"display_name" json:"display_name"`
	IsFollowing bool    `json:"is_following"`
}

// UpdateProfileRequest is the request body for updating the current user's profile.
type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to claim a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidRole is returned for role values outside user/admin
	ErrInvalidRole = errors.New("invalid role")
)

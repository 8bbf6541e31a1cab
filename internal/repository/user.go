package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devshare/internal/model"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, idp_subject, username, display_name, bio, role, is_suspended, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (idp_subject, role)
		VALUES ($1, $2)
		RETURNING ` + userColumns
	err := r.db.GetContext(ctx, user, query, user.IdpSubject, user.Role)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByIdpSubject(ctx context.Context, subject string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE idp_subject = $1`
	err := r.db.GetContext(ctx, &user, query, subject)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by subject: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	err := r.db.GetContext(ctx, &user, query, username)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return exists, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, username, displayName, bio *string) (*model.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    display_name = COALESCE($3, display_name),
		    bio = COALESCE($4, bio),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	var user model.User
	err := r.db.GetContext(ctx, &user, query, id, username, displayName, bio)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, model.ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

func (r *userRepository) AssignUsernameIfEmpty(ctx context.Context, id int64, username string) (bool, error) {
	query := `
		UPDATE users SET username = $2, updated_at = NOW()
		WHERE id = $1 AND username IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id, username)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return false, model.ErrUsernameExists
		}
		return false, fmt.Errorf("failed to assign username: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *userRepository) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_suspended = $2, updated_at = NOW() WHERE id = $1`, id, suspended)
	if err != nil {
		return fmt.Errorf("failed to set suspended: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id int64, role string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	sqlQuery := `
		SELECT id, username, display_name
		FROM users
		WHERE username ILIKE $1 AND NOT is_suspended
		ORDER BY username ASC
		LIMIT $2
	`
	var users []model.UserSummary
	err := r.db.SelectContext(ctx, &users, sqlQuery, "%"+query+"%", limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// summariesByIDs is shared by repositories that need to hydrate user rows for
// a batch of IDs in one query.
func summariesByIDs(ctx context.Context, db *sqlx.DB, ids []int64) ([]model.UserSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, username, display_name FROM users WHERE id = ANY($1)`
	var users []model.UserSummary
	err := db.SelectContext(ctx, &users, query, pq.Array(ids))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get user summaries: %w", err)
	}
	return users, nil
}

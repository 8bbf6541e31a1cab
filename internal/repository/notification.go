package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devshare/internal/model"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, userID, actorID int64, notifType string, itemKind *model.ItemKind, itemID, commentID *int64) error {
	query := `
		INSERT INTO notifications (user_id, actor_id, type, item_kind, item_id, comment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, userID, actorID, notifType, itemKind, itemID, commentID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Notification, *string, error) {
	var query string
	var args []interface{}

	if cursor == nil {
		query = `
			SELECT n.id, n.user_id, n.actor_id, n.type, n.item_kind, n.item_id,
			       n.comment_id, n.is_read, n.created_at
			FROM notifications n
			WHERE n.user_id = $1
			ORDER BY n.created_at DESC, n.id DESC
			LIMIT $2
		`
		args = []interface{}{userID, limit + 1}
	} else {
		ts, id, err := parseCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}
		query = `
			SELECT n.id, n.user_id, n.actor_id, n.type, n.item_kind, n.item_id,
			       n.comment_id, n.is_read, n.created_at
			FROM notifications n
			WHERE n.user_id = $1 AND (n.created_at, n.id) < ($2, $3)
			ORDER BY n.created_at DESC, n.id DESC
			LIMIT $4
		`
		args = []interface{}{userID, ts, id, limit + 1}
	}

	var notifications []model.Notification
	err := r.db.SelectContext(ctx, &notifications, query, args...)
	if err != nil && err != sql.ErrNoRows {
		return nil, nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	var nextCursor *string
	if len(notifications) > limit {
		notifications = notifications[:limit]
		last := notifications[len(notifications)-1]
		c := formatCursor(last.CreatedAt, last.ID)
		nextCursor = &c
	}

	// Hydrate actors in one batch
	actorIDSet := make(map[int64]struct{})
	for _, n := range notifications {
		actorIDSet[n.ActorID] = struct{}{}
	}
	actorIDs := make([]int64, 0, len(actorIDSet))
	for id := range actorIDSet {
		actorIDs = append(actorIDs, id)
	}
	summaries, err := summariesByIDs(ctx, r.db, actorIDs)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[int64]model.UserSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	for i := range notifications {
		if s, ok := byID[notifications[i].ActorID]; ok {
			actor := s
			notifications[i].Actor = &actor
		}
	}

	return notifications, nextCursor, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND id = ANY($2)
	`
	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(notificationIDs))
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

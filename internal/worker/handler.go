package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"devshare/internal/model"
	"devshare/internal/queue"
)

// UsernameAssigner assigns placeholder usernames to freshly provisioned
// accounts. Abstracts the user service so workers don't depend on it directly.
type UsernameAssigner interface {
	AssignPlaceholderUsername(ctx context.Context, userID int64) error
}

// NotificationCreator writes notification rows. Abstracts the repository
// layer behind the minimal surface workers need.
type NotificationCreator interface {
	Create(ctx context.Context, userID, actorID int64, notifType string, itemKind *model.ItemKind, itemID, commentID *int64) error
}

// BlockChecker reports whether a block edge exists in either direction
// between two users. Notifications are never delivered across a block.
type BlockChecker interface {
	ExistsBetween(ctx context.Context, a, b int64) (bool, error)
}

// Handler processes activity events from the queue.
type Handler struct {
	usernames     UsernameAssigner
	notifications NotificationCreator
	blocks        BlockChecker
}

func NewHandler(usernames UsernameAssigner, notifications NotificationCreator, blocks BlockChecker) *Handler {
	return &Handler{
		usernames:     usernames,
		notifications: notifications,
		blocks:        blocks,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventUserProvisioned:
		err = h.handleUserProvisioned(ctx, event)
	case queue.EventUserFollowed:
		err = h.handleUserFollowed(ctx, event)
	case queue.EventItemLiked:
		err = h.handleItemLiked(ctx, event)
	case queue.EventItemCommented:
		err = h.handleItemCommented(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

func (h *Handler) handleUserProvisioned(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] UserProvisioned: user=%d", event.UserID)

	if err := h.usernames.AssignPlaceholderUsername(ctx, event.UserID); err != nil {
		return fmt.Errorf("assign placeholder username: %w", err)
	}
	return nil
}

func (h *Handler) handleUserFollowed(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] UserFollowed: follower=%d followee=%d", event.FollowerID, event.FolloweeID)

	return h.notify(ctx, event.FolloweeID, event.FollowerID, model.NotificationTypeFollow, nil, nil, nil)
}

func (h *Handler) handleItemLiked(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] ItemLiked: %s=%d actor=%d owner=%d",
		event.ItemKind, event.ItemID, event.ActorID, event.OwnerID)

	kind := model.ItemKind(event.ItemKind)
	if !kind.Valid() {
		return fmt.Errorf("invalid item kind: %s", event.ItemKind)
	}

	itemID := event.ItemID
	return h.notify(ctx, event.OwnerID, event.ActorID, model.NotificationTypeLike, &kind, &itemID, nil)
}

func (h *Handler) handleItemCommented(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] ItemCommented: %s=%d actor=%d owner=%d",
		event.ItemKind, event.ItemID, event.ActorID, event.OwnerID)

	kind := model.ItemKind(event.ItemKind)
	if !kind.Valid() {
		return fmt.Errorf("invalid item kind: %s", event.ItemKind)
	}

	itemID := event.ItemID
	return h.notify(ctx, event.OwnerID, event.ActorID, model.NotificationTypeComment, &kind, &itemID, event.CommentID)
}

// notify writes a notification row unless the actor is the recipient or the
// pair is blocked in either direction. Publishers already skip self events,
// but a stale message could still carry one.
func (h *Handler) notify(ctx context.Context, userID, actorID int64, notifType string, itemKind *model.ItemKind, itemID, commentID *int64) error {
	if userID == actorID {
		return nil
	}

	blocked, err := h.blocks.ExistsBetween(ctx, userID, actorID)
	if err != nil {
		return fmt.Errorf("check block: %w", err)
	}
	if blocked {
		log.Printf("[Worker] Skipping notification across block: recipient=%d actor=%d", userID, actorID)
		return nil
	}

	if err := h.notifications.Create(ctx, userID, actorID, notifType, itemKind, itemID, commentID); err != nil {
		return fmt.Errorf("create %s notification: %w", notifType, err)
	}
	return nil
}

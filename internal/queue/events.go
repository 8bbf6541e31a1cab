package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventUserProvisioned = "user_provisioned"
	EventUserFollowed    = "user_followed"
	EventItemLiked       = "item_liked"
	EventItemCommented   = "item_commented"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for activity workers
const (
	ConsumerGroupActivity = "activity_workers"
)

// ActivityEvent represents an event published to the activity stream. All
// activity events share this structure; unused fields stay zero.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// Provisioning event
	UserID int64 `json:"user_id,omitempty"`

	// Follow event
	FollowerID int64 `json:"follower_id,omitempty"`
	FolloweeID int64 `json:"followee_id,omitempty"`

	// Item events (liked, commented)
	ActorID   int64  `json:"actor_id,omitempty"`
	OwnerID   int64  `json:"owner_id,omitempty"`
	ItemKind  string `json:"item_kind,omitempty"`
	ItemID    int64  `json:"item_id,omitempty"`
	CommentID *int64 `json:"comment_id,omitempty"`
}

// NewUserProvisionedEvent creates an event for a freshly created account.
// The worker assigns a placeholder username if the user never claims one.
func NewUserProvisionedEvent(userID int64) ActivityEvent {
	return ActivityEvent{
		Type:      EventUserProvisioned,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
	}
}

// NewUserFollowedEvent creates an event for a new follow edge. The worker
// writes a follow notification for the followee.
func NewUserFollowedEvent(followerID, followeeID int64) ActivityEvent {
	return ActivityEvent{
		Type:       EventUserFollowed,
		Timestamp:  time.Now().Unix(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
}

// NewItemLikedEvent creates an event for a like on a snippet or document.
func NewItemLikedEvent(actorID, ownerID int64, itemKind string, itemID int64) ActivityEvent {
	return ActivityEvent{
		Type:      EventItemLiked,
		Timestamp: time.Now().Unix(),
		ActorID:   actorID,
		OwnerID:   ownerID,
		ItemKind:  itemKind,
		ItemID:    itemID,
	}
}

// NewItemCommentedEvent creates an event for a comment on a snippet or document.
func NewItemCommentedEvent(actorID, ownerID int64, itemKind string, itemID, commentID int64) ActivityEvent {
	return ActivityEvent{
		Type:      EventItemCommented,
		Timestamp: time.Now().Unix(),
		ActorID:   actorID,
		OwnerID:   ownerID,
		ItemKind:  itemKind,
		ItemID:    itemID,
		CommentID: &commentID,
	}
}

// ToMap converts the event to a map for Redis XADD. Redis Streams store
// field-value pairs, so the full event is serialized to JSON in a "data"
// field alongside a plain "type" field for quick inspection.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}

package repository

import (
	"context"
	"time"

	"devshare/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByIdpSubject(ctx context.Context, subject string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id int64, username, displayName, bio *string) (*model.User, error)
	// AssignUsernameIfEmpty sets the username only when none is assigned yet.
	// Returns false when the user already has one.
	AssignUsernameIfEmpty(ctx context.Context, id int64, username string) (bool, error)
	SetSuspended(ctx context.Context, id int64, suspended bool) error
	SetRole(ctx context.Context, id int64, role string) error
	Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error)
}

type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID int64) (bool, error)
	Delete(ctx context.Context, followerID, followeeID int64) error
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error)
	// Counts returns live follower/following counts for a user.
	Counts(ctx context.Context, userID int64) (followers int, following int, err error)
}

type BlockRepository interface {
	// Block inserts the block edge and removes follow edges in both
	// directions between the pair, all in one transaction. Returns false
	// when the block already existed.
	Block(ctx context.Context, blockerID, blockedID int64) (bool, error)
	Unblock(ctx context.Context, blockerID, blockedID int64) error
	// ExistsBetween reports whether a block edge exists in either direction.
	ExistsBetween(ctx context.Context, a, b int64) (bool, error)
	ListBlocked(ctx context.Context, blockerID int64) ([]model.UserSummary, error)
}

// InteractionRepository manages like and save edges for both content kinds.
type InteractionRepository interface {
	Like(ctx context.Context, kind model.ItemKind, itemID, userID int64) (bool, error)
	Unlike(ctx context.Context, kind model.ItemKind, itemID, userID int64) error
	Save(ctx context.Context, kind model.ItemKind, itemID, userID int64) (bool, error)
	Unsave(ctx context.Context, kind model.ItemKind, itemID, userID int64) error
	ListLikedIDs(ctx context.Context, userID int64, kind model.ItemKind) ([]int64, error)
	ListSavedIDs(ctx context.Context, userID int64, kind model.ItemKind) ([]int64, error)
	// CheckLikes checks which of the given items the user has liked
	CheckLikes(ctx context.Context, userID int64, kind model.ItemKind, itemIDs []int64) (map[int64]bool, error)
	CheckSaves(ctx context.Context, userID int64, kind model.ItemKind, itemIDs []int64) (map[int64]bool, error)
}

type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id int64) (*model.Snippet, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Snippet, error)
	Update(ctx context.Context, id, authorID int64, req *model.UpdateSnippetRequest) (*model.Snippet, error)
	Delete(ctx context.Context, id, authorID int64) error
	// GetOwnership returns the author and privacy flag without loading the body.
	GetOwnership(ctx context.Context, id int64) (authorID int64, isPrivate bool, err error)
	ListByAuthor(ctx context.Context, authorID int64, includePrivate bool, cursor *string, limit int) ([]model.Snippet, *string, error)
	ListAuthoredIDs(ctx context.Context, authorID int64) ([]int64, error)
	// ListTagsForIDs returns the deduplicated union of tags across the items.
	ListTagsForIDs(ctx context.Context, ids []int64) ([]string, error)
	// ListPublicWithAnyTag returns public snippets sharing at least one tag
	// with tags, excluding the given IDs and suspended authors, ordered by
	// live like-count desc with a stable tie-break.
	ListPublicWithAnyTag(ctx context.Context, tags []string, excluding []int64, limit int) ([]model.Snippet, error)
	ListPublicByPopularity(ctx context.Context, excluding []int64, limit int) ([]model.Snippet, error)
	CountByAuthor(ctx context.Context, authorID int64, includePrivate bool) (int, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id int64) (*model.Document, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Document, error)
	Update(ctx context.Context, id, authorID int64, req *model.UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, id, authorID int64) error
	GetAuthorID(ctx context.Context, id int64) (int64, error)
	ListByAuthor(ctx context.Context, authorID int64, cursor *string, limit int) ([]model.Document, *string, error)
	ListAuthoredIDs(ctx context.Context, authorID int64) ([]int64, error)
	ListTagsForIDs(ctx context.Context, ids []int64) ([]string, error)
	ListPublicWithAnyTag(ctx context.Context, tags []string, excluding []int64, limit int) ([]model.Document, error)
	ListPublicByPopularity(ctx context.Context, excluding []int64, limit int) ([]model.Document, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
}

type CommentRepository interface {
	Create(ctx context.Context, kind model.ItemKind, itemID, userID int64, content string, parentID *int64) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	Delete(ctx context.Context, commentID int64) error
	ListByItem(ctx context.Context, kind model.ItemKind, itemID int64, cursor *string, limit int) ([]model.Comment, *string, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, userID, actorID int64, notifType string, itemKind *model.ItemKind, itemID, commentID *int64) error
	List(ctx context.Context, userID int64, cursor *string, limit int) ([]model.Notification, *string, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

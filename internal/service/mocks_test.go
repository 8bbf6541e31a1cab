package service

import (
	"context"
	"time"

	"devshare/internal/model"
	"devshare/internal/queue"
)

// Function-field mocks over the repository interfaces. Each test sets only
// the fields it cares about; unset fields return empty results so tests stay
// short. Shared by every test file in the package.

type mockUserRepository struct {
	createFn                func(ctx context.Context, user *model.User) error
	getByIDFn               func(ctx context.Context, id int64) (*model.User, error)
	getByIdpSubjectFn       func(ctx context.Context, subject string) (*model.User, error)
	getByUsernameFn         func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn      func(ctx context.Context, username string) (bool, error)
	updateProfileFn         func(ctx context.Context, id int64, username, displayName, bio *string) (*model.User, error)
	assignUsernameIfEmptyFn func(ctx context.Context, id int64, username string) (bool, error)
	setSuspendedFn          func(ctx context.Context, id int64, suspended bool) error
	setRoleFn               func(ctx context.Context, id int64, role string) error
	searchFn                func(ctx context.Context, query string, limit int) ([]model.UserSummary, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByIdpSubject(ctx context.Context, subject string) (*model.User, error) {
	if m.getByIdpSubjectFn != nil {
		return m.getByIdpSubjectFn(ctx, subject)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id int64, username, displayName, bio *string) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, username, displayName, bio)
	}
	return &model.User{ID: id, Username: username, DisplayName: displayName, Bio: bio}, nil
}

func (m *mockUserRepository) AssignUsernameIfEmpty(ctx context.Context, id int64, username string) (bool, error) {
	if m.assignUsernameIfEmptyFn != nil {
		return m.assignUsernameIfEmptyFn(ctx, id, username)
	}
	return true, nil
}

func (m *mockUserRepository) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	if m.setSuspendedFn != nil {
		return m.setSuspendedFn(ctx, id, suspended)
	}
	return nil
}

func (m *mockUserRepository) SetRole(ctx context.Context, id int64, role string) error {
	if m.setRoleFn != nil {
		return m.setRoleFn(ctx, id, role)
	}
	return nil
}

func (m *mockUserRepository) Search(ctx context.Context, query string, limit int) ([]model.UserSummary, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

type mockFollowRepository struct {
	createFn       func(ctx context.Context, followerID, followeeID int64) (bool, error)
	deleteFn       func(ctx context.Context, followerID, followeeID int64) error
	existsFn       func(ctx context.Context, followerID, followeeID int64) (bool, error)
	getFollowersFn func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	getFollowingFn func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error)
	checkFollowsFn func(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error)
	countsFn       func(ctx context.Context, userID int64) (int, int, error)
}

func (m *mockFollowRepository) Create(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, followerID, followeeID)
	}
	return true, nil
}

func (m *mockFollowRepository) Delete(ctx context.Context, followerID, followeeID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, followerID, followeeID)
	}
	return nil
}

func (m *mockFollowRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, followerID, followeeID)
	}
	return false, nil
}

func (m *mockFollowRepository) GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	if m.getFollowersFn != nil {
		return m.getFollowersFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockFollowRepository) GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.UserSummary, *time.Time, error) {
	if m.getFollowingFn != nil {
		return m.getFollowingFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockFollowRepository) CheckFollows(ctx context.Context, followerID int64, followeeIDs []int64) (map[int64]bool, error) {
	if m.checkFollowsFn != nil {
		return m.checkFollowsFn(ctx, followerID, followeeIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockFollowRepository) Counts(ctx context.Context, userID int64) (int, int, error) {
	if m.countsFn != nil {
		return m.countsFn(ctx, userID)
	}
	return 0, 0, nil
}

type mockBlockRepository struct {
	blockFn         func(ctx context.Context, blockerID, blockedID int64) (bool, error)
	unblockFn       func(ctx context.Context, blockerID, blockedID int64) error
	existsBetweenFn func(ctx context.Context, a, b int64) (bool, error)
	listBlockedFn   func(ctx context.Context, blockerID int64) ([]model.UserSummary, error)
}

func (m *mockBlockRepository) Block(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	if m.blockFn != nil {
		return m.blockFn(ctx, blockerID, blockedID)
	}
	return true, nil
}

func (m *mockBlockRepository) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	if m.unblockFn != nil {
		return m.unblockFn(ctx, blockerID, blockedID)
	}
	return nil
}

func (m *mockBlockRepository) ExistsBetween(ctx context.Context, a, b int64) (bool, error) {
	if m.existsBetweenFn != nil {
		return m.existsBetweenFn(ctx, a, b)
	}
	return false, nil
}

func (m *mockBlockRepository) ListBlocked(ctx context.Context, blockerID int64) ([]model.UserSummary, error) {
	if m.listBlockedFn != nil {
		return m.listBlockedFn(ctx, blockerID)
	}
	return nil, nil
}

type mockInteractionRepository struct {
	likeFn         func(ctx context.Context, kind model.ItemKind, itemID, userID int64) (bool, error)
	unlikeFn       func(ctx context.Context, kind model.ItemKind, itemID, userID int64) error
	saveFn         func(ctx context.Context, kind model.ItemKind, itemID, userID int64) (bool, error)
	unsaveFn       func(ctx context.Context, kind model.ItemKind, itemID, userID int64) error
	listLikedIDsFn func(ctx context.Context, userID int64, kind model.ItemKind) ([]int64, error)
	listSavedIDsFn func(ctx context.Context, userID int64, kind model.ItemKind) ([]int64, error)
	checkLikesFn   func(ctx context.Context, userID int64, kind model.ItemKind, itemIDs []int64) (map[int64]bool, error)
	checkSavesFn   func(ctx context.Context, userID int64, kind model.ItemKind, itemIDs []int64) (map[int64]bool, error)
}

func (m *mockInteractionRepository) Like(ctx context.Context, kind model.ItemKind, itemID, userID int64) (bool, error) {
	if m.likeFn != nil {
		return m.likeFn(ctx, kind, itemID, userID)
	}
	return true, nil
}

func (m *mockInteractionRepository) Unlike(ctx context.Context, kind model.ItemKind, itemID, userID int64) error {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, kind, itemID, userID)
	}
	return nil
}

func (m *mockInteractionRepository) Save(ctx context.Context, kind model.ItemKind, itemID, userID int64) (bool, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, kind, itemID, userID)
	}
	return true, nil
}

func (m *mockInteractionRepository) Unsave(ctx context.Context, kind model.ItemKind, itemID, userID int64) error {
	if m.unsaveFn != nil {
		return m.unsaveFn(ctx, kind, itemID, userID)
	}
	return nil
}

func (m *mockInteractionRepository) ListLikedIDs(ctx context.Context, userID int64, kind model.ItemKind) ([]int64, error) {
	if m.listLikedIDsFn != nil {
		return m.listLikedIDsFn(ctx, userID, kind)
	}
	return nil, nil
}

func (m *mockInteractionRepository) ListSavedIDs(ctx context.Context, userID int64, kind model.ItemKind) ([]int64, error) {
	if m.listSavedIDsFn != nil {
		return m.listSavedIDsFn(ctx, userID, kind)
	}
	return nil, nil
}

func (m *mockInteractionRepository) CheckLikes(ctx context.Context, userID int64, kind model.ItemKind, itemIDs []int64) (map[int64]bool, error) {
	if m.checkLikesFn != nil {
		return m.checkLikesFn(ctx, userID, kind, itemIDs)
	}
	return map[int64]bool{}, nil
}

func (m *mockInteractionRepository) CheckSaves(ctx context.Context, userID int64, kind model.ItemKind, itemIDs []int64) (map[int64]bool, error) {
	if m.checkSavesFn != nil {
		return m.checkSavesFn(ctx, userID, kind, itemIDs)
	}
	return map[int64]bool{}, nil
}

type mockSnippetRepository struct {
	createFn                 func(ctx context.Context, snippet *model.Snippet) error
	getByIDFn                func(ctx context.Context, id int64) (*model.Snippet, error)
	getByIDsFn               func(ctx context.Context, ids []int64) ([]model.Snippet, error)
	updateFn                 func(ctx context.Context, id, authorID int64, req *model.UpdateSnippetRequest) (*model.Snippet, error)
	deleteFn                 func(ctx context.Context, id, authorID int64) error
	getOwnershipFn           func(ctx context.Context, id int64) (int64, bool, error)
	listByAuthorFn           func(ctx context.Context, authorID int64, includePrivate bool, cursor *string, limit int) ([]model.Snippet, *string, error)
	listAuthoredIDsFn        func(ctx context.Context, authorID int64) ([]int64, error)
	listTagsForIDsFn         func(ctx context.Context, ids []int64) ([]string, error)
	listPublicWithAnyTagFn   func(ctx context.Context, tags []string, excluding []int64, limit int) ([]model.Snippet, error)
	listPublicByPopularityFn func(ctx context.Context, excluding []int64, limit int) ([]model.Snippet, error)
	countByAuthorFn          func(ctx context.Context, authorID int64, includePrivate bool) (int, error)
}

func (m *mockSnippetRepository) Create(ctx context.Context, snippet *model.Snippet) error {
	if m.createFn != nil {
		return m.createFn(ctx, snippet)
	}
	return nil
}

func (m *mockSnippetRepository) GetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrItemNotFound
}

func (m *mockSnippetRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Snippet, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockSnippetRepository) Update(ctx context.Context, id, authorID int64, req *model.UpdateSnippetRequest) (*model.Snippet, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, authorID, req)
	}
	return nil, model.ErrItemNotFound
}

func (m *mockSnippetRepository) Delete(ctx context.Context, id, authorID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, authorID)
	}
	return nil
}

func (m *mockSnippetRepository) GetOwnership(ctx context.Context, id int64) (int64, bool, error) {
	if m.getOwnershipFn != nil {
		return m.getOwnershipFn(ctx, id)
	}
	return 0, false, model.ErrItemNotFound
}

func (m *mockSnippetRepository) ListByAuthor(ctx context.Context, authorID int64, includePrivate bool, cursor *string, limit int) ([]model.Snippet, *string, error) {
	if m.listByAuthorFn != nil {
		return m.listByAuthorFn(ctx, authorID, includePrivate, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockSnippetRepository) ListAuthoredIDs(ctx context.Context, authorID int64) ([]int64, error) {
	if m.listAuthoredIDsFn != nil {
		return m.listAuthoredIDsFn(ctx, authorID)
	}
	return nil, nil
}

func (m *mockSnippetRepository) ListTagsForIDs(ctx context.Context, ids []int64) ([]string, error) {
	if m.listTagsForIDsFn != nil {
		return m.listTagsForIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockSnippetRepository) ListPublicWithAnyTag(ctx context.Context, tags []string, excluding []int64, limit int) ([]model.Snippet, error) {
	if m.listPublicWithAnyTagFn != nil {
		return m.listPublicWithAnyTagFn(ctx, tags, excluding, limit)
	}
	return nil, nil
}

func (m *mockSnippetRepository) ListPublicByPopularity(ctx context.Context, excluding []int64, limit int) ([]model.Snippet, error) {
	if m.listPublicByPopularityFn != nil {
		return m.listPublicByPopularityFn(ctx, excluding, limit)
	}
	return nil, nil
}

func (m *mockSnippetRepository) CountByAuthor(ctx context.Context, authorID int64, includePrivate bool) (int, error) {
	if m.countByAuthorFn != nil {
		return m.countByAuthorFn(ctx, authorID, includePrivate)
	}
	return 0, nil
}

type mockDocumentRepository struct {
	createFn                 func(ctx context.Context, doc *model.Document) error
	getByIDFn                func(ctx context.Context, id int64) (*model.Document, error)
	getByIDsFn               func(ctx context.Context, ids []int64) ([]model.Document, error)
	updateFn                 func(ctx context.Context, id, authorID int64, req *model.UpdateDocumentRequest) (*model.Document, error)
	deleteFn                 func(ctx context.Context, id, authorID int64) error
	getAuthorIDFn            func(ctx context.Context, id int64) (int64, error)
	listByAuthorFn           func(ctx context.Context, authorID int64, cursor *string, limit int) ([]model.Document, *string, error)
	listAuthoredIDsFn        func(ctx context.Context, authorID int64) ([]int64, error)
	listTagsForIDsFn         func(ctx context.Context, ids []int64) ([]string, error)
	listPublicWithAnyTagFn   func(ctx context.Context, tags []string, excluding []int64, limit int) ([]model.Document, error)
	listPublicByPopularityFn func(ctx context.Context, excluding []int64, limit int) ([]model.Document, error)
	countByAuthorFn          func(ctx context.Context, authorID int64) (int, error)
}

func (m *mockDocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	if m.createFn != nil {
		return m.createFn(ctx, doc)
	}
	return nil
}

func (m *mockDocumentRepository) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrItemNotFound
}

func (m *mockDocumentRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Document, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockDocumentRepository) Update(ctx context.Context, id, authorID int64, req *model.UpdateDocumentRequest) (*model.Document, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, authorID, req)
	}
	return nil, model.ErrItemNotFound
}

func (m *mockDocumentRepository) Delete(ctx context.Context, id, authorID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, authorID)
	}
	return nil
}

func (m *mockDocumentRepository) GetAuthorID(ctx context.Context, id int64) (int64, error) {
	if m.getAuthorIDFn != nil {
		return m.getAuthorIDFn(ctx, id)
	}
	return 0, model.ErrItemNotFound
}

func (m *mockDocumentRepository) ListByAuthor(ctx context.Context, authorID int64, cursor *string, limit int) ([]model.Document, *string, error) {
	if m.listByAuthorFn != nil {
		return m.listByAuthorFn(ctx, authorID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockDocumentRepository) ListAuthoredIDs(ctx context.Context, authorID int64) ([]int64, error) {
	if m.listAuthoredIDsFn != nil {
		return m.listAuthoredIDsFn(ctx, authorID)
	}
	return nil, nil
}

func (m *mockDocumentRepository) ListTagsForIDs(ctx context.Context, ids []int64) ([]string, error) {
	if m.listTagsForIDsFn != nil {
		return m.listTagsForIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockDocumentRepository) ListPublicWithAnyTag(ctx context.Context, tags []string, excluding []int64, limit int) ([]model.Document, error) {
	if m.listPublicWithAnyTagFn != nil {
		return m.listPublicWithAnyTagFn(ctx, tags, excluding, limit)
	}
	return nil, nil
}

func (m *mockDocumentRepository) ListPublicByPopularity(ctx context.Context, excluding []int64, limit int) ([]model.Document, error) {
	if m.listPublicByPopularityFn != nil {
		return m.listPublicByPopularityFn(ctx, excluding, limit)
	}
	return nil, nil
}

func (m *mockDocumentRepository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	if m.countByAuthorFn != nil {
		return m.countByAuthorFn(ctx, authorID)
	}
	return 0, nil
}

// mockPublisher records published events.
type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.ActivityEvent) (string, error)
	published []queue.ActivityEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}

// ptr returns a pointer to v, for viewer IDs in tests.
func ptr(v int64) *int64 {
	return &v
}

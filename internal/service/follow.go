package service

import (
	"context"
	"log"
	"time"

	"devshare/internal/model"
	"devshare/internal/queue"
	"devshare/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	blockRepo  repository.BlockRepository
	userRepo   repository.UserRepository
	publisher  queue.Publisher
}

func NewFollowService(
	followRepo repository.FollowRepository,
	blockRepo repository.BlockRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		blockRepo:  blockRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.ErrCannotFollowSelf
	}

	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return err
	}

	// A block in either direction forbids following; report it as not-found
	// so the block itself stays invisible.
	blocked, err := s.blockRepo.ExistsBetween(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if blocked {
		return model.ErrUserNotFound
	}

	inserted, err := s.followRepo.Create(ctx, followerID, followeeID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyFollowing
	}

	// Publish after the write; failures are logged, never surfaced.
	if s.publisher != nil {
		event := queue.NewUserFollowedEvent(followerID, followeeID)
		msgID, err := s.publisher.Publish(ctx, queue.StreamActivity, event)
		if err != nil {
			log.Printf("[FollowService] Failed to publish UserFollowed event: follower=%d followee=%d err=%v",
				followerID, followeeID, err)
		} else {
			log.Printf("[FollowService] Published UserFollowed: follower=%d followee=%d msgID=%s",
				followerID, followeeID, msgID)
		}
	}

	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	return s.followRepo.Delete(ctx, followerID, followeeID)
}

// GetFollowers retrieves users who follow the specified user, newest first,
// with the timestamp cursor scheme from the repository layer. When a viewer
// is present the list is enriched with their follow status in one batch
// query. Blocked pairs see an empty list (soft-deny, same as profiles).
func (s *FollowService) GetFollowers(ctx context.Context, userID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error) {
	if empty, err := s.softDenied(ctx, viewerID, userID); err != nil {
		return nil, err
	} else if empty {
		return &model.FollowListResponse{Users: []model.UserSummary{}}, nil
	}

	users, nextCursor, err := s.followRepo.GetFollowers(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		users = s.enrichWithFollowStatus(ctx, *viewerID, users)
	}

	return followListResponse(users, nextCursor), nil
}

// GetFollowing retrieves users that the specified user follows. See
// GetFollowers for the enrichment and soft-deny behavior.
func (s *FollowService) GetFollowing(ctx context.Context, userID int64, cursor *time.Time, limit int, viewerID *int64) (*model.FollowListResponse, error) {
	if empty, err := s.softDenied(ctx, viewerID, userID); err != nil {
		return nil, err
	} else if empty {
		return &model.FollowListResponse{Users: []model.UserSummary{}}, nil
	}

	users, nextCursor, err := s.followRepo.GetFollowing(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		users = s.enrichWithFollowStatus(ctx, *viewerID, users)
	}

	return followListResponse(users, nextCursor), nil
}

func (s *FollowService) softDenied(ctx context.Context, viewerID *int64, ownerID int64) (bool, error) {
	if viewerID == nil || *viewerID == ownerID {
		return false, nil
	}
	return s.blockRepo.ExistsBetween(ctx, *viewerID, ownerID)
}

func followListResponse(users []model.UserSummary, nextCursor *time.Time) *model.FollowListResponse {
	var nextCursorStr *string
	if nextCursor != nil {
		str := nextCursor.Format(time.RFC3339Nano)
		nextCursorStr = &str
	}
	if users == nil {
		users = []model.UserSummary{}
	}
	return &model.FollowListResponse{
		Users:      users,
		NextCursor: nextCursorStr,
		HasMore:    nextCursor != nil,
	}
}

// enrichWithFollowStatus batch-checks whether the viewer follows each listed
// user (single ANY($1) query, not N+1). On failure the list is returned with
// is_following=false rather than failing the request.
func (s *FollowService) enrichWithFollowStatus(ctx context.Context, viewerID int64, users []model.UserSummary) []model.UserSummary {
	if len(users) == 0 {
		return users
	}

	userIDs := make([]int64, len(users))
	for i, user := range users {
		userIDs[i] = user.ID
	}

	followMap, err := s.followRepo.CheckFollows(ctx, viewerID, userIDs)
	if err != nil {
		return users
	}

	for i := range users {
		users[i].IsFollowing = followMap[users[i].ID]
	}

	return users
}

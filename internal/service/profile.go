package service

import (
	"context"
	"fmt"

	"devshare/internal/model"
	"devshare/internal/repository"
)

type ProfileService struct {
	userRepo     repository.UserRepository
	followRepo   repository.FollowRepository
	snippetRepo  repository.SnippetRepository
	documentRepo repository.DocumentRepository
	visibility   *VisibilityService
}

func NewProfileService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	snippetRepo repository.SnippetRepository,
	documentRepo repository.DocumentRepository,
	visibility *VisibilityService,
) *ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		followRepo:   followRepo,
		snippetRepo:  snippetRepo,
		documentRepo: documentRepo,
		visibility:   visibility,
	}
}

// GetProfile assembles a profile for the viewer. A blocked pair, or a
// suspended owner viewed by anyone but themselves, gets the minimal form:
// the bare user row with zeroed counts and IsFollowing false.
func (s *ProfileService) GetProfile(ctx context.Context, viewerID *int64, userID int64) (*model.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	verdict, err := s.visibility.CanViewProfile(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}

	isSelf := viewerID != nil && *viewerID == userID
	if verdict.MinimalOnly || (user.IsSuspended && !isSelf) {
		return &model.Profile{User: *user}, nil
	}

	followers, following, err := s.followRepo.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count follows: %w", err)
	}

	// Private snippets count toward the total only for viewers who can see
	// them, which the visibility rules reduce to the owner themselves.
	includePrivate, err := s.visibility.CanView(ctx, viewerID, userID, true)
	if err != nil {
		return nil, err
	}
	snippetCount, err := s.snippetRepo.CountByAuthor(ctx, userID, includePrivate)
	if err != nil {
		return nil, fmt.Errorf("failed to count snippets: %w", err)
	}
	documentCount, err := s.documentRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	isFollowing := false
	if viewerID != nil && !isSelf {
		isFollowing, err = s.followRepo.Exists(ctx, *viewerID, userID)
		if err != nil {
			return nil, err
		}
	}

	return &model.Profile{
		User:           *user,
		FollowerCount:  followers,
		FollowingCount: following,
		SnippetCount:   snippetCount,
		DocumentCount:  documentCount,
		IsFollowing:    isFollowing,
	}, nil
}

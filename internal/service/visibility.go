package service

import (
	"context"

	"devshare/internal/model"
	"devshare/internal/repository"
)

// VisibilityService decides whether a viewer may see a content item or a
// profile. It is read-only and total: absent edges resolve to "not visible",
// never to an error. Only store failures propagate.
//
// The decision is an ordered guard chain; the first rule that claims the
// case wins. The order encodes the precedence contract:
//
//	1. self      - authors always see their own content
//	2. block     - a block edge in either direction denies, overriding follows
//	3. public    - public items are visible to everyone else
//	4. follow    - private items require a follow edge viewer -> owner
type VisibilityService struct {
	followRepo repository.FollowRepository
	blockRepo  repository.BlockRepository
	rules      []visibilityRule
}

// visibilityRule inspects one aspect of the (viewer, owner, privacy) triple.
// decided=false passes the case to the next rule.
type visibilityRule func(ctx context.Context, viewerID *int64, ownerID int64, isPrivate bool) (decided bool, allow bool, err error)

func NewVisibilityService(followRepo repository.FollowRepository, blockRepo repository.BlockRepository) *VisibilityService {
	s := &VisibilityService{
		followRepo: followRepo,
		blockRepo:  blockRepo,
	}
	s.rules = []visibilityRule{
		s.selfRule,
		s.blockRule,
		s.publicRule,
		s.followRule,
	}
	return s
}

// CanView reports whether the viewer (nil = anonymous) may see a content item
// owned by ownerID with the given privacy flag.
func (s *VisibilityService) CanView(ctx context.Context, viewerID *int64, ownerID int64, isPrivate bool) (bool, error) {
	for _, rule := range s.rules {
		decided, allow, err := rule(ctx, viewerID, ownerID, isPrivate)
		if err != nil {
			return false, err
		}
		if decided {
			return allow, nil
		}
	}
	return false, nil
}

// CanViewProfile resolves profile-level visibility. A block in either
// direction yields MinimalOnly: the caller must serve the bare user row with
// zeroed counts and empty collections rather than an error, so block
// existence does not leak through differing error behavior.
func (s *VisibilityService) CanViewProfile(ctx context.Context, viewerID *int64, ownerID int64) (model.ProfileVisibility, error) {
	if viewerID == nil || *viewerID == ownerID {
		return model.ProfileVisibility{}, nil
	}
	blocked, err := s.blockRepo.ExistsBetween(ctx, *viewerID, ownerID)
	if err != nil {
		return model.ProfileVisibility{}, err
	}
	if blocked {
		return model.ProfileVisibility{Blocked: true, MinimalOnly: true}, nil
	}
	return model.ProfileVisibility{}, nil
}

func (s *VisibilityService) selfRule(_ context.Context, viewerID *int64, ownerID int64, _ bool) (bool, bool, error) {
	if viewerID != nil && *viewerID == ownerID {
		return true, true, nil
	}
	return false, false, nil
}

func (s *VisibilityService) blockRule(ctx context.Context, viewerID *int64, ownerID int64, _ bool) (bool, bool, error) {
	if viewerID == nil {
		// Anonymous viewers cannot be party to a block edge.
		return false, false, nil
	}
	blocked, err := s.blockRepo.ExistsBetween(ctx, *viewerID, ownerID)
	if err != nil {
		return false, false, err
	}
	if blocked {
		return true, false, nil
	}
	return false, false, nil
}

func (s *VisibilityService) publicRule(_ context.Context, _ *int64, _ int64, isPrivate bool) (bool, bool, error) {
	if !isPrivate {
		return true, true, nil
	}
	return false, false, nil
}

// followRule is terminal: by the time it runs the item is private, the viewer
// is not the author and no block exists. Anonymous viewers are denied;
// otherwise a follow edge viewer -> owner is required.
func (s *VisibilityService) followRule(ctx context.Context, viewerID *int64, ownerID int64, _ bool) (bool, bool, error) {
	if viewerID == nil {
		return true, false, nil
	}
	follows, err := s.followRepo.Exists(ctx, *viewerID, ownerID)
	if err != nil {
		return false, false, err
	}
	return true, follows, nil
}

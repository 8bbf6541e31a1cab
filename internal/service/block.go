package service

import (
	"context"

	"devshare/internal/model"
	"devshare/internal/repository"
)

// BlockService manages user-to-user block edges. Blocks are silent: no
// events are published and the blocked user is never told.
type BlockService struct {
	blockRepo repository.BlockRepository
	userRepo  repository.UserRepository
}

func NewBlockService(blockRepo repository.BlockRepository, userRepo repository.UserRepository) *BlockService {
	return &BlockService{
		blockRepo: blockRepo,
		userRepo:  userRepo,
	}
}

// Block creates the block edge. The repository removes follow edges in both
// directions in the same transaction, so the "block implies no follow"
// invariant holds atomically.
func (s *BlockService) Block(ctx context.Context, blockerID, blockedID int64) error {
	if blockerID == blockedID {
		return model.ErrCannotBlockSelf
	}

	if _, err := s.userRepo.GetByID(ctx, blockedID); err != nil {
		return err
	}

	inserted, err := s.blockRepo.Block(ctx, blockerID, blockedID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyBlocked
	}

	return nil
}

func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	return s.blockRepo.Unblock(ctx, blockerID, blockedID)
}

func (s *BlockService) ListBlocked(ctx context.Context, blockerID int64) (*model.BlockListResponse, error) {
	users, err := s.blockRepo.ListBlocked(ctx, blockerID)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.UserSummary{}
	}
	return &model.BlockListResponse{Users: users}, nil
}

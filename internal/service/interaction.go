package service

import (
	"context"
	"log"

	"devshare/internal/model"
	"devshare/internal/queue"
	"devshare/internal/repository"
)

// InteractionService toggles like and save edges. Every toggle is gated by
// the visibility resolver: an item the actor cannot see behaves exactly like
// a missing one.
type InteractionService struct {
	interactionRepo repository.InteractionRepository
	snippetRepo     repository.SnippetRepository
	documentRepo    repository.DocumentRepository
	visibility      *VisibilityService
	publisher       queue.Publisher
}

func NewInteractionService(
	interactionRepo repository.InteractionRepository,
	snippetRepo repository.SnippetRepository,
	documentRepo repository.DocumentRepository,
	visibility *VisibilityService,
	publisher queue.Publisher,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		snippetRepo:     snippetRepo,
		documentRepo:    documentRepo,
		visibility:      visibility,
		publisher:       publisher,
	}
}

func (s *InteractionService) Like(ctx context.Context, userID int64, kind model.ItemKind, itemID int64) error {
	ownerID, err := s.authorizeInteraction(ctx, userID, kind, itemID)
	if err != nil {
		return err
	}

	inserted, err := s.interactionRepo.Like(ctx, kind, itemID, userID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadyLiked
	}

	if s.publisher != nil && ownerID != userID {
		event := queue.NewItemLikedEvent(userID, ownerID, string(kind), itemID)
		if _, err := s.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
			log.Printf("[InteractionService] Failed to publish ItemLiked event: actor=%d %s=%d err=%v",
				userID, kind, itemID, err)
		}
	}

	return nil
}

func (s *InteractionService) Unlike(ctx context.Context, userID int64, kind model.ItemKind, itemID int64) error {
	if _, err := s.authorizeInteraction(ctx, userID, kind, itemID); err != nil {
		return err
	}
	return s.interactionRepo.Unlike(ctx, kind, itemID, userID)
}

func (s *InteractionService) Save(ctx context.Context, userID int64, kind model.ItemKind, itemID int64) error {
	if _, err := s.authorizeInteraction(ctx, userID, kind, itemID); err != nil {
		return err
	}

	inserted, err := s.interactionRepo.Save(ctx, kind, itemID, userID)
	if err != nil {
		return err
	}
	if !inserted {
		return model.ErrAlreadySaved
	}
	return nil
}

func (s *InteractionService) Unsave(ctx context.Context, userID int64, kind model.ItemKind, itemID int64) error {
	if _, err := s.authorizeInteraction(ctx, userID, kind, itemID); err != nil {
		return err
	}
	return s.interactionRepo.Unsave(ctx, kind, itemID, userID)
}

// ListSavedSnippets returns the actor's saved snippets, enriched with their
// like/save flags.
func (s *InteractionService) ListSavedSnippets(ctx context.Context, userID int64) ([]model.Snippet, error) {
	ids, err := s.interactionRepo.ListSavedIDs(ctx, userID, model.KindSnippet)
	if err != nil {
		return nil, err
	}
	snippets, err := s.snippetRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	likeMap, err := s.interactionRepo.CheckLikes(ctx, userID, model.KindSnippet, ids)
	if err != nil {
		return nil, err
	}
	for i := range snippets {
		snippets[i].IsSaved = true
		snippets[i].IsLiked = likeMap[snippets[i].ID]
	}
	if snippets == nil {
		snippets = []model.Snippet{}
	}
	return snippets, nil
}

// ListSavedDocuments mirrors ListSavedSnippets for documents.
func (s *InteractionService) ListSavedDocuments(ctx context.Context, userID int64) ([]model.Document, error) {
	ids, err := s.interactionRepo.ListSavedIDs(ctx, userID, model.KindDocument)
	if err != nil {
		return nil, err
	}
	docs, err := s.documentRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	likeMap, err := s.interactionRepo.CheckLikes(ctx, userID, model.KindDocument, ids)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].IsSaved = true
		docs[i].IsLiked = likeMap[docs[i].ID]
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// authorizeInteraction resolves the item's owner and checks the actor can see
// it. Returns the owner ID for event publishing.
func (s *InteractionService) authorizeInteraction(ctx context.Context, userID int64, kind model.ItemKind, itemID int64) (int64, error) {
	var ownerID int64
	var isPrivate bool
	var err error

	switch kind {
	case model.KindSnippet:
		ownerID, isPrivate, err = s.snippetRepo.GetOwnership(ctx, itemID)
	case model.KindDocument:
		ownerID, err = s.documentRepo.GetAuthorID(ctx, itemID)
	default:
		return 0, model.ErrInvalidKind
	}
	if err != nil {
		return 0, err
	}

	visible, err := s.visibility.CanView(ctx, &userID, ownerID, isPrivate)
	if err != nil {
		return 0, err
	}
	if !visible {
		return 0, model.ErrItemNotFound
	}

	return ownerID, nil
}

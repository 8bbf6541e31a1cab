package service

import (
	"context"
	"log"
	"strings"

	"devshare/internal/model"
	"devshare/internal/queue"
	"devshare/internal/repository"
)

const CommentListDefaultLimit = 20

type CommentService struct {
	commentRepo  repository.CommentRepository
	snippetRepo  repository.SnippetRepository
	documentRepo repository.DocumentRepository
	visibility   *VisibilityService
	publisher    queue.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	snippetRepo repository.SnippetRepository,
	documentRepo repository.DocumentRepository,
	visibility *VisibilityService,
	publisher queue.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		snippetRepo:  snippetRepo,
		documentRepo: documentRepo,
		visibility:   visibility,
		publisher:    publisher,
	}
}

func (s *CommentService) Create(ctx context.Context, userID int64, kind model.ItemKind, itemID int64, req *model.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	ownerID, err := s.authorizeItemAccess(ctx, &userID, kind, itemID)
	if err != nil {
		return nil, err
	}

	if req.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.ItemKind != kind || parent.ItemID != itemID {
			return nil, model.ErrCommentNotFound
		}
	}

	comment, err := s.commentRepo.Create(ctx, kind, itemID, userID, content, req.ParentCommentID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil && ownerID != userID {
		event := queue.NewItemCommentedEvent(userID, ownerID, string(kind), itemID, comment.ID)
		if _, err := s.publisher.Publish(ctx, queue.StreamActivity, event); err != nil {
			log.Printf("[CommentService] Failed to publish ItemCommented event: actor=%d %s=%d err=%v",
				userID, kind, itemID, err)
		}
	}

	return comment, nil
}

// Delete removes a comment. Allowed for the comment's author and for the
// author of the item it sits on.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		ownerID, err := s.itemOwner(ctx, comment.ItemKind, comment.ItemID)
		if err != nil {
			return err
		}
		if ownerID != userID {
			return model.ErrNotCommentOwner
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}

func (s *CommentService) ListByItem(ctx context.Context, viewerID *int64, kind model.ItemKind, itemID int64, cursor *string, limit int) (*model.CommentListResponse, error) {
	if limit <= 0 {
		limit = CommentListDefaultLimit
	}
	if limit > ContentListMaxLimit {
		limit = ContentListMaxLimit
	}

	if _, err := s.authorizeItemAccess(ctx, viewerID, kind, itemID); err != nil {
		return nil, err
	}

	comments, nextCursor, err := s.commentRepo.ListByItem(ctx, kind, itemID, cursor, limit)
	if err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []model.Comment{}
	}
	return &model.CommentListResponse{
		Comments:   comments,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

func (s *CommentService) authorizeItemAccess(ctx context.Context, viewerID *int64, kind model.ItemKind, itemID int64) (int64, error) {
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

	visible, err := s.visibility.CanView(ctx, viewerID, ownerID, isPrivate)
	if err != nil {
		return 0, err
	}
	if !visible {
		return 0, model.ErrItemNotFound
	}

	return ownerID, nil
}

func (s *CommentService) itemOwner(ctx context.Context, kind model.ItemKind, itemID int64) (int64, error) {
	switch kind {
	case model.KindSnippet:
		ownerID, _, err := s.snippetRepo.GetOwnership(ctx, itemID)
		return ownerID, err
	case model.KindDocument:
		return s.documentRepo.GetAuthorID(ctx, itemID)
	default:
		return 0, model.ErrInvalidKind
	}
}

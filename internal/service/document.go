package service

import (
	"context"
	"strings"

	"devshare/internal/model"
	"devshare/internal/repository"
)

type DocumentService struct {
	documentRepo    repository.DocumentRepository
	userRepo        repository.UserRepository
	interactionRepo repository.InteractionRepository
	visibility      *VisibilityService
}

func NewDocumentService(
	documentRepo repository.DocumentRepository,
	userRepo repository.UserRepository,
	interactionRepo repository.InteractionRepository,
	visibility *VisibilityService,
) *DocumentService {
	return &DocumentService{
		documentRepo:    documentRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		visibility:      visibility,
	}
}

func (s *DocumentService) Create(ctx context.Context, authorID int64, req *model.CreateDocumentRequest) (*model.Document, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, model.ErrTitleRequired
	}
	if len(req.Title) > model.MaxDocumentTitleLength {
		return nil, model.ErrTitleTooLong
	}
	if req.Body == "" {
		return nil, model.ErrBodyRequired
	}
	if len(req.Body) > model.MaxDocumentBodyLength {
		return nil, model.ErrBodyTooLong
	}
	if err := validateTags(req.Tags); err != nil {
		return nil, err
	}

	doc := &model.Document{
		AuthorID: authorID,
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		Tags:     normalizeTags(req.Tags),
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns a document if the viewer may see it. Documents are always
// public, so only blocks and author suspension can hide one.
func (s *DocumentService) Get(ctx context.Context, viewerID *int64, documentID int64) (*model.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, doc.AuthorID)
	if err != nil {
		return nil, err
	}
	if author.IsSuspended && (viewerID == nil || *viewerID != author.ID) {
		return nil, model.ErrItemNotFound
	}

	visible, err := s.visibility.CanView(ctx, viewerID, doc.AuthorID, false)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, model.ErrItemNotFound
	}

	doc.Author = &model.UserSummary{
		ID:          author.ID,
		Username:    author.Username,
		DisplayName: author.DisplayName,
	}
	s.enrichViewerFlags(ctx, viewerID, doc)

	return doc, nil
}

func (s *DocumentService) ListByAuthor(ctx context.Context, viewerID *int64, authorID int64, cursor *string, limit int) (*model.DocumentListResponse, error) {
	limit = clampLimit(limit)

	visible, err := s.visibility.CanView(ctx, viewerID, authorID, false)
	if err != nil {
		return nil, err
	}
	if !visible {
		return &model.DocumentListResponse{Documents: []model.Document{}}, nil
	}

	docs, nextCursor, err := s.documentRepo.ListByAuthor(ctx, authorID, cursor, limit)
	if err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []model.Document{}
	}
	return &model.DocumentListResponse{
		Documents:  docs,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

func (s *DocumentService) Update(ctx context.Context, authorID, documentID int64, req *model.UpdateDocumentRequest) (*model.Document, error) {
	if req.Title != nil && len(*req.Title) > model.MaxDocumentTitleLength {
		return nil, model.ErrTitleTooLong
	}
	if req.Body != nil && len(*req.Body) > model.MaxDocumentBodyLength {
		return nil, model.ErrBodyTooLong
	}
	if req.Tags != nil {
		if err := validateTags(req.Tags); err != nil {
			return nil, err
		}
		req.Tags = normalizeTags(req.Tags)
	}
	return s.documentRepo.Update(ctx, documentID, authorID, req)
}

func (s *DocumentService) Delete(ctx context.Context, authorID, documentID int64) error {
	return s.documentRepo.Delete(ctx, documentID, authorID)
}

func (s *DocumentService) enrichViewerFlags(ctx context.Context, viewerID *int64, doc *model.Document) {
	if viewerID == nil {
		return
	}
	ids := []int64{doc.ID}
	if likeMap, err := s.interactionRepo.CheckLikes(ctx, *viewerID, model.KindDocument, ids); err == nil {
		doc.IsLiked = likeMap[doc.ID]
	}
	if saveMap, err := s.interactionRepo.CheckSaves(ctx, *viewerID, model.KindDocument, ids); err == nil {
		doc.IsSaved = saveMap[doc.ID]
	}
}

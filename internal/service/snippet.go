package service

import (
	"context"
	"strings"

	"devshare/internal/model"
	"devshare/internal/repository"
)

const (
	ContentListDefaultLimit = 20
	ContentListMaxLimit     = 50
)

type SnippetService struct {
	snippetRepo     repository.SnippetRepository
	userRepo        repository.UserRepository
	interactionRepo repository.InteractionRepository
	visibility      *VisibilityService
}

func NewSnippetService(
	snippetRepo repository.SnippetRepository,
	userRepo repository.UserRepository,
	interactionRepo repository.InteractionRepository,
	visibility *VisibilityService,
) *SnippetService {
	return &SnippetService{
		snippetRepo:     snippetRepo,
		userRepo:        userRepo,
		interactionRepo: interactionRepo,
		visibility:      visibility,
	}
}

func (s *SnippetService) Create(ctx context.Context, authorID int64, req *model.CreateSnippetRequest) (*model.Snippet, error) {
	if err := validateSnippetInput(req.Title, req.Code, req.Tags); err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	if visibility != model.VisibilityPublic && visibility != model.VisibilityPrivate {
		return nil, model.ErrInvalidVisibility
	}

	snippet := &model.Snippet{
		AuthorID:   authorID,
		Title:      strings.TrimSpace(req.Title),
		Code:       req.Code,
		Language:   req.Language,
		Tags:       normalizeTags(req.Tags),
		Visibility: visibility,
	}
	if err := s.snippetRepo.Create(ctx, snippet); err != nil {
		return nil, err
	}
	return snippet, nil
}

// Get returns a snippet if the viewer may see it. Invisible and missing
// snippets are indistinguishable to the caller.
func (s *SnippetService) Get(ctx context.Context, viewerID *int64, snippetID int64) (*model.Snippet, error) {
	snippet, err := s.snippetRepo.GetByID(ctx, snippetID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, snippet.AuthorID)
	if err != nil {
		return nil, err
	}
	// Suspended authors' content is hidden from everyone but themselves.
	if author.IsSuspended && (viewerID == nil || *viewerID != author.ID) {
		return nil, model.ErrItemNotFound
	}

	visible, err := s.visibility.CanView(ctx, viewerID, snippet.AuthorID,
		snippet.Visibility == model.VisibilityPrivate)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, model.ErrItemNotFound
	}

	snippet.Author = &model.UserSummary{
		ID:          author.ID,
		Username:    author.Username,
		DisplayName: author.DisplayName,
	}
	s.enrichViewerFlags(ctx, viewerID, snippet)

	return snippet, nil
}

// ListByAuthor lists an author's snippets for a viewer. Whether private
// snippets are included is exactly the resolver's private-content decision
// for this pair; a blocked pair sees an empty list (soft-deny).
func (s *SnippetService) ListByAuthor(ctx context.Context, viewerID *int64, authorID int64, cursor *string, limit int) (*model.SnippetListResponse, error) {
	limit = clampLimit(limit)

	// CanView with isPrivate=false is false only when a block exists.
	publicVisible, err := s.visibility.CanView(ctx, viewerID, authorID, false)
	if err != nil {
		return nil, err
	}
	if !publicVisible {
		return &model.SnippetListResponse{Snippets: []model.Snippet{}}, nil
	}

	includePrivate, err := s.visibility.CanView(ctx, viewerID, authorID, true)
	if err != nil {
		return nil, err
	}

	snippets, nextCursor, err := s.snippetRepo.ListByAuthor(ctx, authorID, includePrivate, cursor, limit)
	if err != nil {
		return nil, err
	}

	if snippets == nil {
		snippets = []model.Snippet{}
	}
	return &model.SnippetListResponse{
		Snippets:   snippets,
		NextCursor: nextCursor,
		HasMore:    nextCursor != nil,
	}, nil
}

func (s *SnippetService) Update(ctx context.Context, authorID, snippetID int64, req *model.UpdateSnippetRequest) (*model.Snippet, error) {
	if req.Visibility != nil &&
		*req.Visibility != model.VisibilityPublic && *req.Visibility != model.VisibilityPrivate {
		return nil, model.ErrInvalidVisibility
	}
	if req.Title != nil && len(*req.Title) > model.MaxSnippetTitleLength {
		return nil, model.ErrTitleTooLong
	}
	if req.Code != nil && len(*req.Code) > model.MaxSnippetCodeLength {
		return nil, model.ErrCodeTooLong
	}
	if req.Tags != nil {
		if err := validateTags(req.Tags); err != nil {
			return nil, err
		}
		req.Tags = normalizeTags(req.Tags)
	}
	return s.snippetRepo.Update(ctx, snippetID, authorID, req)
}

func (s *SnippetService) Delete(ctx context.Context, authorID, snippetID int64) error {
	return s.snippetRepo.Delete(ctx, snippetID, authorID)
}

func (s *SnippetService) enrichViewerFlags(ctx context.Context, viewerID *int64, snippet *model.Snippet) {
	if viewerID == nil {
		return
	}
	ids := []int64{snippet.ID}
	if likeMap, err := s.interactionRepo.CheckLikes(ctx, *viewerID, model.KindSnippet, ids); err == nil {
		snippet.IsLiked = likeMap[snippet.ID]
	}
	if saveMap, err := s.interactionRepo.CheckSaves(ctx, *viewerID, model.KindSnippet, ids); err == nil {
		snippet.IsSaved = saveMap[snippet.ID]
	}
}

func validateSnippetInput(title, code string, tags []string) error {
	if strings.TrimSpace(title) == "" {
		return model.ErrTitleRequired
	}
	if len(title) > model.MaxSnippetTitleLength {
		return model.ErrTitleTooLong
	}
	if code == "" {
		return model.ErrCodeRequired
	}
	if len(code) > model.MaxSnippetCodeLength {
		return model.ErrCodeTooLong
	}
	return validateTags(tags)
}

func validateTags(tags []string) error {
	if len(tags) > model.MaxTagsPerItem {
		return model.ErrTooManyTags
	}
	for _, tag := range tags {
		if len(tag) > model.MaxTagLength {
			return model.ErrTagTooLong
		}
	}
	return nil
}

// normalizeTags lowercases and deduplicates while preserving the author's
// order for display. Matching is case-insensitive set membership; order only
// matters to the UI.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return ContentListDefaultLimit
	}
	if limit > ContentListMaxLimit {
		return ContentListMaxLimit
	}
	return limit
}

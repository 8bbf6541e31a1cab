package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"devshare/internal/httputil"
	"devshare/internal/model"
	"devshare/internal/service"
	"devshare/internal/transport/http/middleware"
)

type SnippetHandler struct {
	snippetService *service.SnippetService
}

func NewSnippetHandler(snippetService *service.SnippetService) *SnippetHandler {
	return &SnippetHandler{
		snippetService: snippetService,
	}
}

func (h *SnippetHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	snippet, err := h.snippetService.Create(r.Context(), authorID, &req)
	if err != nil {
		writeContentValidationError(w, err, "Failed to create snippet")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, snippet)
}

func (h *SnippetHandler) Get(w http.ResponseWriter, r *http.Request) {
	snippetID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid snippet ID")
		return
	}

	viewerID := middleware.ViewerID(r.Context())

	snippet, err := h.snippetService.Get(r.Context(), viewerID, snippetID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrItemNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Get snippet handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch snippet")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, snippet)
}

func (h *SnippetHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	viewerID := middleware.ViewerID(r.Context())
	limit := parseLimit(r, service.ContentListDefaultLimit, service.ContentListMaxLimit)

	result, err := h.snippetService.ListByAuthor(r.Context(), viewerID, authorID, cursorParam(r), limit)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] ListByAuthor snippet handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch snippets")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *SnippetHandler) Update(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	snippetID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid snippet ID")
		return
	}

	var req model.UpdateSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	snippet, err := h.snippetService.Update(r.Context(), authorID, snippetID, &req)
	if err != nil {
		writeContentValidationError(w, err, "Failed to update snippet")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, snippet)
}

func (h *SnippetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	snippetID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid snippet ID")
		return
	}

	if err := h.snippetService.Delete(r.Context(), authorID, snippetID); err != nil {
		switch {
		case errors.Is(err, model.ErrItemNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Delete snippet handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete snippet")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Snippet deleted",
	})
}

// writeContentValidationError maps content mutation errors shared by the
// snippet and document handlers.
func writeContentValidationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrTitleRequired),
		errors.Is(err, model.ErrCodeRequired),
		errors.Is(err, model.ErrBodyRequired),
		errors.Is(err, model.ErrTitleTooLong),
		errors.Is(err, model.ErrCodeTooLong),
		errors.Is(err, model.ErrBodyTooLong),
		errors.Is(err, model.ErrTooManyTags),
		errors.Is(err, model.ErrTagTooLong),
		errors.Is(err, model.ErrInvalidVisibility):
		httputil.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrItemNotFound):
		httputil.WriteNotFound(w, err.Error())
	default:
		log.Printf("[ERROR] Content handler: %v", err)
		httputil.WriteInternalError(w, fallback)
	}
}

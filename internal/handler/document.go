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

type DocumentHandler struct {
	documentService *service.DocumentService
}

func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	doc, err := h.documentService.Create(r.Context(), authorID, &req)
	if err != nil {
		writeContentValidationError(w, err, "Failed to create document")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	documentID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid document ID")
		return
	}

	viewerID := middleware.ViewerID(r.Context())

	doc, err := h.documentService.Get(r.Context(), viewerID, documentID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrItemNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Get document handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch document")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	viewerID := middleware.ViewerID(r.Context())
	limit := parseLimit(r, service.ContentListDefaultLimit, service.ContentListMaxLimit)

	result, err := h.documentService.ListByAuthor(r.Context(), viewerID, authorID, cursorParam(r), limit)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] ListByAuthor document handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch documents")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	documentID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid document ID")
		return
	}

	var req model.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	doc, err := h.documentService.Update(r.Context(), authorID, documentID, &req)
	if err != nil {
		writeContentValidationError(w, err, "Failed to update document")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	documentID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid document ID")
		return
	}

	if err := h.documentService.Delete(r.Context(), authorID, documentID); err != nil {
		switch {
		case errors.Is(err, model.ErrItemNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Delete document handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete document")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Document deleted",
	})
}

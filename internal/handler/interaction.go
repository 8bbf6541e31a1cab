package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devshare/internal/httputil"
	"devshare/internal/model"
	"devshare/internal/service"
	"devshare/internal/transport/http/middleware"
)

type InteractionHandler struct {
	interactionService *service.InteractionService
}

func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
	}
}

func (h *InteractionHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.interactionService.Like, "Item liked")
}

func (h *InteractionHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.interactionService.Unlike, "Item unliked")
}

func (h *InteractionHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.interactionService.Save, "Item saved")
}

func (h *InteractionHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.interactionService.Unsave, "Item unsaved")
}

func (h *InteractionHandler) ListSavedSnippets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	snippets, err := h.interactionService.ListSavedSnippets(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] ListSavedSnippets handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch saved snippets")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"snippets": snippets,
	})
}

func (h *InteractionHandler) ListSavedDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	documents, err := h.interactionService.ListSavedDocuments(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] ListSavedDocuments handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch saved documents")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
	})
}

// toggle handles the four like/save edge mutations, which share their
// parameter shape and error mapping.
func (h *InteractionHandler) toggle(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, userID int64, kind model.ItemKind, itemID int64) error,
	successMessage string,
) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	kind := model.ItemKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		httputil.WriteBadRequest(w, "Invalid content kind")
		return
	}

	itemID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid item ID")
		return
	}

	if err := action(r.Context(), userID, kind, itemID); err != nil {
		switch {
		case errors.Is(err, model.ErrItemNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrAlreadyLiked), errors.Is(err, model.ErrAlreadySaved):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrNotLiked), errors.Is(err, model.ErrNotSaved):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Interaction handler: %v", err)
			httputil.WriteInternalError(w, "Failed to process interaction")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": successMessage,
	})
}

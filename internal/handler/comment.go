package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devshare/internal/httputil"
	"devshare/internal/model"
	"devshare/internal/service"
	"devshare/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, kind, itemID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrContentRequired), errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrItemNotFound), errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Create comment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	commentID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid comment ID")
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, commentID); err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound), errors.Is(err, model.ErrItemNotFound):
			httputil.WriteNotFound(w, err.Error())
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteForbidden(w, err.Error())
		default:
			log.Printf("[ERROR] Delete comment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Comment deleted",
	})
}

func (h *CommentHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
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

	viewerID := middleware.ViewerID(r.Context())
	limit := parseLimit(r, service.CommentListDefaultLimit, service.ContentListMaxLimit)

	result, err := h.commentService.ListByItem(r.Context(), viewerID, kind, itemID, cursorParam(r), limit)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrItemNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] ListByItem comment handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch comments")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

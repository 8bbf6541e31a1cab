package handler

import (
	"errors"
	"log"
	"net/http"

	"devshare/internal/httputil"
	"devshare/internal/model"
	"devshare/internal/service"
	"devshare/internal/transport/http/middleware"
)

type BlockHandler struct {
	blockService *service.BlockService
}

func NewBlockHandler(blockService *service.BlockService) *BlockHandler {
	return &BlockHandler{
		blockService: blockService,
	}
}

func (h *BlockHandler) Block(w http.ResponseWriter, r *http.Request) {
	blockerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	blockedID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.blockService.Block(r.Context(), blockerID, blockedID); err != nil {
		switch {
		case errors.Is(err, model.ErrCannotBlockSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrAlreadyBlocked):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Block handler: %v", err)
			httputil.WriteInternalError(w, "Failed to block user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully blocked user",
	})
}

func (h *BlockHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	blockerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	blockedID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	if err := h.blockService.Unblock(r.Context(), blockerID, blockedID); err != nil {
		switch {
		case errors.Is(err, model.ErrNotBlocked):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] Unblock handler: %v", err)
			httputil.WriteInternalError(w, "Failed to unblock user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully unblocked user",
	})
}

func (h *BlockHandler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	blockerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	result, err := h.blockService.ListBlocked(r.Context(), blockerID)
	if err != nil {
		log.Printf("[ERROR] ListBlocked handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch blocked users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

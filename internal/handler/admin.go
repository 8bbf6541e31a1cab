package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"devshare/internal/httputil"
	"devshare/internal/model"
	"devshare/internal/service"
)

// AdminHandler exposes account moderation operations. All routes are gated
// behind the admin role at the router.
type AdminHandler struct {
	userService *service.UserService
}

func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
	}
}

type setSuspendedRequest struct {
	Suspended bool `json:"suspended"`
}

func (h *AdminHandler) SetSuspended(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var req setSuspendedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.SetSuspended(r.Context(), userID, req.Suspended); err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] SetSuspended handler: %v", err)
			httputil.WriteInternalError(w, "Failed to update suspension")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Suspension updated",
	})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(r, "id")
	if !ok {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.SetRole(r.Context(), userID, req.Role); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidRole):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] SetRole handler: %v", err)
			httputil.WriteInternalError(w, "Failed to update role")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Role updated",
	})
}

package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"devshare/internal/httputil"
	"devshare/internal/model"
	"devshare/internal/service"
	"devshare/internal/transport/http/middleware"
)

type UserHandler struct {
	userService    *service.UserService
	profileService *service.ProfileService
}

func NewUserHandler(userService *service.UserService, profileService *service.ProfileService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		profileService: profileService,
	}
}

// GetMe returns the authenticated user's own account.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetMe handler: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch account")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// UpdateMe applies partial profile updates to the authenticated user.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] UpdateMe handler: %v", err)
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// GetProfile returns a user's profile assembled for the viewer.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user ID")
		return
	}

	viewerID := middleware.ViewerID(r.Context())

	profile, err := h.profileService.GetProfile(r.Context(), viewerID, userID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, err.Error())
		default:
			log.Printf("[ERROR] GetProfile handler: %v", err)
			httputil.WriteInternalError(w, "Failed to fetch profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// Search finds users by username fragment.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := parseLimit(r, 20, 50)

	users, err := h.userService.Search(r.Context(), query, limit)
	if err != nil {
		log.Printf("[ERROR] Search handler: %v", err)
		httputil.WriteInternalError(w, "Failed to search users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

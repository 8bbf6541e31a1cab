package handler

import (
	"log"
	"net/http"

	"devshare/internal/httputil"
	"devshare/internal/model"
	"devshare/internal/service"
	"devshare/internal/transport/http/middleware"
)

type RecommendationHandler struct {
	recommendationService *service.RecommendationService
}

func NewRecommendationHandler(recommendationService *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// Get returns recommendations for the authenticated user. Anonymous viewers
// get two empty lists rather than an error.
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, &model.Recommendations{
			Snippets:  []model.Snippet{},
			Documents: []model.Document{},
		})
		return
	}

	recs, err := h.recommendationService.GetRecommendations(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] Recommendations handler: %v", err)
		httputil.WriteInternalError(w, "Failed to compute recommendations")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, recs)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/auth"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/models"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/services"
	"github.com/rs/zerolog/log"
)

// RecommendationHandler handles HTTP requests for personalized
// recommendations.
type RecommendationHandler struct {
	service services.RecommendationServiceProvider
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(service services.RecommendationServiceProvider) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// GetForUser handles computing recommendations for the authenticated user.
// The result is recomputed on every request; nothing is cached.
func (h *RecommendationHandler) GetForUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	books, err := h.service.Recommend(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to compute recommendations")
		http.Error(w, "Failed to compute recommendations", http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []models.RankedBook{} // encode an empty list, not null
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

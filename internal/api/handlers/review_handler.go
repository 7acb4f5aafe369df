package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/auth"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ReviewHandler handles HTTP requests for book reviews.
type ReviewHandler struct {
	service services.ReviewServiceProvider
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service services.ReviewServiceProvider) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ReviewPayload defines the structure for review submissions.
type ReviewPayload struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Upsert handles submitting or replacing the caller's review of a book.
func (h *ReviewHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	bookID := chi.URLParam(r, "id")

	var payload ReviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	review, err := h.service.UpsertReview(claims.UserID, bookID, payload.Rating, payload.Comment)
	if err != nil {
		log.Error().Err(err).Str("book_id", bookID).Str("user_id", claims.UserID).Msg("Failed to submit review")
		http.Error(w, "Failed to submit review: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(review)
}

// GetForBook handles listing all reviews of a book.
func (h *ReviewHandler) GetForBook(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	reviews, err := h.service.ListBookReviews(bookID)
	if err != nil {
		log.Error().Err(err).Str("book_id", bookID).Msg("Failed to list reviews")
		http.Error(w, "Failed to list reviews", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}

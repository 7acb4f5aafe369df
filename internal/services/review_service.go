package services

import (
	"database/sql"
	"fmt"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/models"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReviewServiceProvider defines the interface for review services.
type ReviewServiceProvider interface {
	UpsertReview(userID, bookID string, rating int, comment string) (models.Review, error)
	ListBookReviews(bookID string) ([]models.Review, error)
	GetUserReview(userID, bookID string) (models.Review, error)
}

// ReviewService provides business logic for review submission. A user holds
// at most one review per book; resubmitting replaces it in place.
type ReviewService struct {
	db       *sql.DB
	eventSvc EventServiceProvider
	hub      *websocket.Hub
}

// NewReviewService creates a new ReviewService. The hub may be nil when no
// live feed is wired (e.g., in tests).
func NewReviewService(db *sql.DB, eventSvc EventServiceProvider, hub *websocket.Hub) *ReviewService {
	return &ReviewService{db: db, eventSvc: eventSvc, hub: hub}
}

// UpsertReview inserts the user's review of a book, or replaces the rating
// and comment when one already exists for the (user, book) pair.
func (s *ReviewService) UpsertReview(userID, bookID string, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	// The book must exist; reviews of unknown books are rejected up front
	// rather than surfacing as a foreign key violation.
	var bookTitle string
	if err := s.db.QueryRow("SELECT title FROM books WHERE id = ?", bookID).Scan(&bookTitle); err != nil {
		if err == sql.ErrNoRows {
			return models.Review{}, fmt.Errorf("book with ID %s not found", bookID)
		}
		return models.Review{}, err
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO reviews (id, user_id, book_id, rating, comment)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, book_id)
		DO UPDATE SET rating = excluded.rating, comment = excluded.comment`)
	if err != nil {
		return models.Review{}, err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(uuid.New().String(), userID, bookID, rating, comment); err != nil {
		return models.Review{}, err
	}

	// Re-read the stored row: on conflict the original review ID and
	// creation time survive.
	review, err := s.GetUserReview(userID, bookID)
	if err != nil {
		return models.Review{}, err
	}

	msg := fmt.Sprintf("Review submitted for '%s' with rating %d.", bookTitle, rating)
	if err := s.eventSvc.CreateEvent("review.submitted", "info", msg, &bookID); err != nil {
		log.Warn().Err(err).Str("book_id", bookID).Msg("Failed to record review event")
	}

	if s.hub != nil {
		if data := websocket.NewReviewMessage(review); data != nil {
			s.hub.BroadcastTo(bookID, data)
		}
	}

	return review, nil
}

// ListBookReviews retrieves all reviews for a book, newest first, with the
// reviewer's handle joined in.
func (s *ReviewService) ListBookReviews(bookID string) ([]models.Review, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.user_id, r.book_id, r.rating, r.comment, r.created_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.book_id = ?
		ORDER BY r.created_at DESC, r.id DESC`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// GetUserReview retrieves the single review a user holds for a book.
func (s *ReviewService) GetUserReview(userID, bookID string) (models.Review, error) {
	row := s.db.QueryRow(`
		SELECT r.id, r.user_id, r.book_id, r.rating, r.comment, r.created_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = ? AND r.book_id = ?`, userID, bookID)

	review, err := scanReview(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Review{}, fmt.Errorf("no review by user %s for book %s", userID, bookID)
		}
		return models.Review{}, err
	}
	return review, nil
}

// scanReview is a helper to scan a review from a row or rows object.
func scanReview(scanner interface{ Scan(...interface{}) error }) (models.Review, error) {
	var review models.Review
	var comment sql.NullString
	err := scanner.Scan(&review.ID, &review.UserID, &review.BookID, &review.Rating, &comment, &review.CreatedAt, &review.Username)
	if err != nil {
		return review, err
	}
	review.Comment = comment.String
	return review, nil
}

package services

import (
	"github.com/abhinav-rajesh/BOOKSHELF/internal/models"
)

const (
	// A review counts toward genre affinity from this rating upward.
	affinityMinRating = 4
	// At most this many favorite genres feed the candidate pool.
	affinityGenreLimit = 3
	// Maximum number of books returned by a recommendation.
	recommendationLimit = 5
)

// RankedBooksQuery filters and bounds a ranking over the catalog. An empty
// Genres slice means no genre filter; ExcludeBookIDs removes specific books
// from the pool. Results are ordered by average rating descending with
// unreviewed books last, then by title ascending.
type RankedBooksQuery struct {
	Genres         []string
	ExcludeBookIDs []string
	Limit          uint64
}

// RecommendationStore is the read-only query surface the selector needs.
// The selector issues at most three queries per invocation and never writes.
type RecommendationStore interface {
	// TopGenreAffinities returns the user's favorite genres, ordered by how
	// many reviews with rating >= minRating the user has in each, ties
	// broken alphabetically by genre.
	TopGenreAffinities(userID string, minRating, limit int) ([]models.GenreAffinity, error)
	// ReviewedBookIDs returns the IDs of every book the user has reviewed,
	// at any rating.
	ReviewedBookIDs(userID string) ([]string, error)
	// RankedBooks returns books matching the query, each with its average
	// rating across all users.
	RankedBooks(q RankedBooksQuery) ([]models.RankedBook, error)
}

// RecommendationServiceProvider defines the interface for the recommendation
// selector.
type RecommendationServiceProvider interface {
	Recommend(userID string) ([]models.RankedBook, error)
}

// RecommendationService produces content-based book recommendations from a
// user's review history. It holds no state between calls; every invocation
// recomputes the result from the store.
type RecommendationService struct {
	store RecommendationStore
}

// NewRecommendationService creates a new RecommendationService backed by the
// given query store.
func NewRecommendationService(store RecommendationStore) *RecommendationService {
	return &RecommendationService{store: store}
}

// Recommend returns up to five books for the user, ranked by average rating
// across all users.
//
// Books from the user's favorite genres (the genres they rated 4 or higher
// most often) are selected first, excluding anything the user has already
// reviewed. When the user has no high ratings at all, the global top-rated
// list is returned instead — deliberately without excluding the user's own
// reviews, matching the long-standing behavior of the review site. When the
// favorite genres are exhausted, the global ranking minus the user's
// reviewed books is used.
//
// An unknown user ID behaves exactly like a user with no reviews; it is not
// an error. Store errors are returned unchanged.
func (s *RecommendationService) Recommend(userID string) ([]models.RankedBook, error) {
	affinities, err := s.store.TopGenreAffinities(userID, affinityMinRating, affinityGenreLimit)
	if err != nil {
		return nil, err
	}

	// No personalized signal: recommend the overall highest-rated books.
	if len(affinities) == 0 {
		return s.store.RankedBooks(RankedBooksQuery{Limit: recommendationLimit})
	}

	genres := make([]string, len(affinities))
	for i, a := range affinities {
		genres[i] = a.Genre
	}

	reviewed, err := s.store.ReviewedBookIDs(userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.RankedBooks(RankedBooksQuery{
		Genres:         genres,
		ExcludeBookIDs: reviewed,
		Limit:          recommendationLimit,
	})
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	// Favorite genres are exhausted (everything in them already reviewed);
	// fall back to the global ranking minus the user's reviewed books.
	return s.store.RankedBooks(RankedBooksQuery{
		ExcludeBookIDs: reviewed,
		Limit:          recommendationLimit,
	})
}

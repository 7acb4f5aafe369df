package services

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/abhinav-rajesh/BOOKSHELF/internal/models"
)

// SQLRecommendationStore implements RecommendationStore on top of the
// relational schema. All queries are built with squirrel so variable-length
// genre and exclusion sets bind as native IN/NOT IN parameters.
type SQLRecommendationStore struct {
	db *sql.DB
}

// NewSQLRecommendationStore creates a store backed by the given database.
func NewSQLRecommendationStore(db *sql.DB) *SQLRecommendationStore {
	return &SQLRecommendationStore{db: db}
}

// TopGenreAffinities counts the user's reviews with rating >= minRating per
// genre and returns the top genres by count, alphabetical on ties.
func (s *SQLRecommendationStore) TopGenreAffinities(userID string, minRating, limit int) ([]models.GenreAffinity, error) {
	query := sq.Select("b.genre", "COUNT(*) AS cnt").
		From("reviews r").
		Join("books b ON b.id = r.book_id").
		Where(sq.Eq{"r.user_id": userID}).
		Where(sq.GtOrEq{"r.rating": minRating}).
		GroupBy("b.genre").
		OrderBy("cnt DESC", "b.genre ASC").
		Limit(uint64(limit))

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var affinities []models.GenreAffinity
	for rows.Next() {
		var a models.GenreAffinity
		if err := rows.Scan(&a.Genre, &a.Count); err != nil {
			return nil, err
		}
		affinities = append(affinities, a)
	}
	return affinities, rows.Err()
}

// ReviewedBookIDs returns the IDs of all books the user has reviewed.
func (s *SQLRecommendationStore) ReviewedBookIDs(userID string) ([]string, error) {
	query := sq.Select("book_id").
		From("reviews").
		Where(sq.Eq{"user_id": userID})

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RankedBooks ranks books by average rating across all users, highest first.
// The left join keeps books with no reviews in the pool; their NULL average
// sorts after every real average. Titles break ties deterministically.
func (s *SQLRecommendationStore) RankedBooks(q RankedBooksQuery) ([]models.RankedBook, error) {
	query := sq.Select(
		"b.id", "b.title", "b.author", "b.genre", "b.description", "b.created_at",
		"AVG(r.rating) AS avg_rating",
	).
		From("books b").
		LeftJoin("reviews r ON r.book_id = b.id")

	if len(q.Genres) > 0 {
		query = query.Where(sq.Eq{"b.genre": q.Genres})
	}
	if len(q.ExcludeBookIDs) > 0 {
		query = query.Where(sq.NotEq{"b.id": q.ExcludeBookIDs})
	}

	query = query.GroupBy("b.id").OrderBy("avg_rating DESC", "b.title ASC")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	rows, err := query.RunWith(s.db).Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.RankedBook
	for rows.Next() {
		var book models.RankedBook
		var desc sql.NullString
		var avg sql.NullFloat64
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.Genre, &desc, &book.CreatedAt, &avg); err != nil {
			return nil, err
		}
		book.Description = desc.String
		if avg.Valid {
			v := avg.Float64
			book.AvgRating = &v
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

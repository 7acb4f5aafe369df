package services

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Each pooled connection would otherwise get its own :memory: database.
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func insertUser(t *testing.T, db *sql.DB, id, username string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO users (id, username, password_hash) VALUES (?, ?, 'x')", id, username)
	require.NoError(t, err)
}

func insertBook(t *testing.T, db *sql.DB, id, title, genre string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO books (id, title, author, genre) VALUES (?, ?, 'Author', ?)", id, title, genre)
	require.NoError(t, err)
}

func insertReview(t *testing.T, db *sql.DB, userID, bookID string, rating int) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO reviews (id, user_id, book_id, rating) VALUES (?, ?, ?, ?)",
		fmt.Sprintf("rev-%s-%s", userID, bookID), userID, bookID, rating,
	)
	require.NoError(t, err)
}

func TestTopGenreAffinities_CountsAndTieBreaks(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLRecommendationStore(db)

	insertUser(t, db, "u1", "alice")
	insertBook(t, db, "b1", "One", "Sci-Fi")
	insertBook(t, db, "b2", "Two", "Sci-Fi")
	insertBook(t, db, "b3", "Three", "Mystery")
	insertBook(t, db, "b4", "Four", "Mystery")
	insertBook(t, db, "b5", "Five", "Non-Fiction")
	insertBook(t, db, "b6", "Six", "Horror")

	insertReview(t, db, "u1", "b1", 5)
	insertReview(t, db, "u1", "b2", 4)
	insertReview(t, db, "u1", "b3", 4)
	insertReview(t, db, "u1", "b4", 5)
	insertReview(t, db, "u1", "b5", 3) // below the affinity threshold
	insertReview(t, db, "u1", "b6", 4)

	affinities, err := store.TopGenreAffinities("u1", 4, 3)
	require.NoError(t, err)
	require.Len(t, affinities, 3)

	// Sci-Fi and Mystery both have two qualifying reviews; the tie breaks
	// alphabetically. Horror has one. Non-Fiction does not qualify.
	assert.Equal(t, "Mystery", affinities[0].Genre)
	assert.Equal(t, 2, affinities[0].Count)
	assert.Equal(t, "Sci-Fi", affinities[1].Genre)
	assert.Equal(t, 2, affinities[1].Count)
	assert.Equal(t, "Horror", affinities[2].Genre)
	assert.Equal(t, 1, affinities[2].Count)
}

func TestTopGenreAffinities_EmptyForUnknownUser(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLRecommendationStore(db)

	affinities, err := store.TopGenreAffinities("nobody", 4, 3)
	require.NoError(t, err)
	assert.Empty(t, affinities)
}

func TestReviewedBookIDs(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLRecommendationStore(db)

	insertUser(t, db, "u1", "alice")
	insertUser(t, db, "u2", "bob")
	insertBook(t, db, "b1", "One", "Sci-Fi")
	insertBook(t, db, "b2", "Two", "Mystery")
	insertReview(t, db, "u1", "b1", 2)
	insertReview(t, db, "u1", "b2", 5)
	insertReview(t, db, "u2", "b1", 4)

	ids, err := store.ReviewedBookIDs("u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b1", "b2"}, ids)
}

func TestRankedBooks_OrderingAndNullAverages(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLRecommendationStore(db)

	insertUser(t, db, "u1", "alice")
	insertUser(t, db, "u2", "bob")
	insertBook(t, db, "b1", "Low Rated", "Sci-Fi")
	insertBook(t, db, "b2", "High Rated", "Sci-Fi")
	insertBook(t, db, "b3", "Never Reviewed", "Sci-Fi")

	insertReview(t, db, "u1", "b1", 1)
	insertReview(t, db, "u1", "b2", 4)
	insertReview(t, db, "u2", "b2", 5)

	books, err := store.RankedBooks(RankedBooksQuery{Limit: 5})
	require.NoError(t, err)
	require.Len(t, books, 3)

	assert.Equal(t, "b2", books[0].ID)
	require.NotNil(t, books[0].AvgRating)
	assert.InDelta(t, 4.5, *books[0].AvgRating, 0.001)

	assert.Equal(t, "b1", books[1].ID)
	require.NotNil(t, books[1].AvgRating)
	assert.InDelta(t, 1.0, *books[1].AvgRating, 0.001)

	// Even a 1.0 average outranks a book nobody has reviewed.
	assert.Equal(t, "b3", books[2].ID)
	assert.Nil(t, books[2].AvgRating)
}

func TestRankedBooks_TitleBreaksAverageTies(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLRecommendationStore(db)

	insertUser(t, db, "u1", "alice")
	insertBook(t, db, "b1", "Zebra", "Sci-Fi")
	insertBook(t, db, "b2", "Aardvark", "Sci-Fi")
	insertReview(t, db, "u1", "b1", 4)
	insertReview(t, db, "u1", "b2", 4)

	books, err := store.RankedBooks(RankedBooksQuery{Limit: 5})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Aardvark", books[0].Title)
	assert.Equal(t, "Zebra", books[1].Title)
}

func TestRankedBooks_GenreFilterAndExclusion(t *testing.T) {
	db := newTestDB(t)
	store := NewSQLRecommendationStore(db)

	insertBook(t, db, "b1", "One", "Sci-Fi")
	insertBook(t, db, "b2", "Two", "Sci-Fi")
	insertBook(t, db, "b3", "Three", "Mystery")
	insertBook(t, db, "b4", "Four", "Non-Fiction")

	books, err := store.RankedBooks(RankedBooksQuery{
		Genres:         []string{"Sci-Fi", "Mystery"},
		ExcludeBookIDs: []string{"b1"},
		Limit:          5,
	})
	require.NoError(t, err)

	got := make([]string, 0, len(books))
	for _, b := range books {
		got = append(got, b.ID)
	}
	assert.ElementsMatch(t, []string{"b2", "b3"}, got)
}

// The scenarios below exercise the selector end to end against the real
// store and the seeded starter catalog.

func seededSelector(t *testing.T) (*sql.DB, *RecommendationService) {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, database.Seed(db))
	return db, NewRecommendationService(NewSQLRecommendationStore(db))
}

func bookIDByTitle(t *testing.T, db *sql.DB, title string) string {
	t.Helper()
	var id string
	require.NoError(t, db.QueryRow("SELECT id FROM books WHERE title = ?", title).Scan(&id))
	return id
}

func TestRecommend_NewUserGetsGlobalTopFive(t *testing.T) {
	db, svc := seededSelector(t)
	insertUser(t, db, "u1", "alice")

	books, err := svc.Recommend("u1")
	require.NoError(t, err)

	// Six seeded books, limit five. With no reviews anywhere every average
	// is null, so the ranking degrades to title order.
	require.Len(t, books, 5)
	seen := make(map[string]bool)
	for _, b := range books {
		assert.False(t, seen[b.ID], "duplicate book %s", b.ID)
		seen[b.ID] = true
		assert.Nil(t, b.AvgRating)
	}
}

func TestRecommend_UnknownUserBehavesLikeNewUser(t *testing.T) {
	_, svc := seededSelector(t)

	books, err := svc.Recommend("no-such-user")
	require.NoError(t, err)
	assert.Len(t, books, 5)
}

func TestRecommend_SciFiFanWithGenreExhausted(t *testing.T) {
	db, svc := seededSelector(t)
	insertUser(t, db, "u1", "alice")

	// The starter catalog has exactly two Sci-Fi books. Rating both highly
	// exhausts the favorite genre entirely.
	martian := bookIDByTitle(t, db, "The Martian")
	hailMary := bookIDByTitle(t, db, "Project Hail Mary")
	insertReview(t, db, "u1", martian, 5)
	insertReview(t, db, "u1", hailMary, 4)

	books, err := svc.Recommend("u1")
	require.NoError(t, err)

	// Fallback: global ranking minus the two reviewed books.
	require.Len(t, books, 4)
	for _, b := range books {
		assert.NotEqual(t, martian, b.ID)
		assert.NotEqual(t, hailMary, b.ID)
		assert.NotEqual(t, "Sci-Fi", b.Genre)
	}
}

func TestRecommend_SciFiFanGetsUnreadSciFi(t *testing.T) {
	db, svc := seededSelector(t)
	insertUser(t, db, "u1", "alice")
	insertBook(t, db, "extra", "Dune", "Sci-Fi")

	martian := bookIDByTitle(t, db, "The Martian")
	hailMary := bookIDByTitle(t, db, "Project Hail Mary")
	insertReview(t, db, "u1", martian, 5)
	insertReview(t, db, "u1", hailMary, 4)

	books, err := svc.Recommend("u1")
	require.NoError(t, err)

	// The one unread Sci-Fi book is the entire candidate pool.
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestRecommend_NeverReturnsMoreThanFive(t *testing.T) {
	db, svc := seededSelector(t)
	insertUser(t, db, "u1", "alice")

	for i := 0; i < 10; i++ {
		insertBook(t, db, fmt.Sprintf("extra-%d", i), fmt.Sprintf("Extra %02d", i), "Mystery")
	}
	crawdads := bookIDByTitle(t, db, "Where the Crawdads Sing")
	insertReview(t, db, "u1", crawdads, 5)

	books, err := svc.Recommend("u1")
	require.NoError(t, err)
	require.Len(t, books, 5)
	for _, b := range books {
		assert.Equal(t, "Mystery", b.Genre)
		assert.NotEqual(t, crawdads, b.ID)
	}
}

func TestRecommend_IdempotentAgainstRealStore(t *testing.T) {
	db, svc := seededSelector(t)
	insertUser(t, db, "u1", "alice")
	martian := bookIDByTitle(t, db, "The Martian")
	insertReview(t, db, "u1", martian, 5)

	first, err := svc.Recommend("u1")
	require.NoError(t, err)
	second, err := svc.Recommend("u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

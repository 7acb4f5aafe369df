package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBooks_TitleOrderWithAverages(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookService(db)

	insertUser(t, db, "u1", "alice")
	insertBook(t, db, "b1", "Zebra", "Sci-Fi")
	insertBook(t, db, "b2", "Aardvark", "Mystery")
	insertReview(t, db, "u1", "b1", 4)

	books, err := svc.ListBooks()
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, "Aardvark", books[0].Title)
	assert.Nil(t, books[0].AvgRating)
	assert.Equal(t, 0, books[0].ReviewCount)

	assert.Equal(t, "Zebra", books[1].Title)
	require.NotNil(t, books[1].AvgRating)
	assert.InDelta(t, 4.0, *books[1].AvgRating, 0.001)
	assert.Equal(t, 1, books[1].ReviewCount)
}

func TestGetBookByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookService(db)

	insertBook(t, db, "b1", "One", "Sci-Fi")

	book, err := svc.GetBookByID("b1")
	require.NoError(t, err)
	assert.Equal(t, "One", book.Title)

	_, err = svc.GetBookByID("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestCreateBook(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookService(db)

	book, err := svc.CreateBook("Dune", "Frank Herbert", "Sci-Fi", "Spice and sandworms.")
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)

	stored, err := svc.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", stored.Title)
	assert.Equal(t, "Sci-Fi", stored.Genre)
}

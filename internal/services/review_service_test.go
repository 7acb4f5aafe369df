package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertReview_InsertThenReplace(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, NewEventService(db), nil)

	insertUser(t, db, "u1", "alice")
	insertBook(t, db, "b1", "One", "Sci-Fi")

	first, err := svc.UpsertReview("u1", "b1", 3, "decent")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Rating)
	assert.Equal(t, "decent", first.Comment)
	assert.Equal(t, "alice", first.Username)

	second, err := svc.UpsertReview("u1", "b1", 5, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, 5, second.Rating)
	assert.Equal(t, "changed my mind", second.Comment)

	// The original review survives the replacement; no duplicate row.
	assert.Equal(t, first.ID, second.ID)
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM reviews").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUpsertReview_DistinctUsersKeepDistinctReviews(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, NewEventService(db), nil)

	insertUser(t, db, "u1", "alice")
	insertUser(t, db, "u2", "bob")
	insertBook(t, db, "b1", "One", "Sci-Fi")

	_, err := svc.UpsertReview("u1", "b1", 4, "")
	require.NoError(t, err)
	_, err = svc.UpsertReview("u2", "b1", 2, "")
	require.NoError(t, err)

	reviews, err := svc.ListBookReviews("b1")
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestUpsertReview_RejectsOutOfRangeRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, NewEventService(db), nil)

	insertUser(t, db, "u1", "alice")
	insertBook(t, db, "b1", "One", "Sci-Fi")

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.UpsertReview("u1", "b1", rating, "")
		assert.Error(t, err, "rating %d should be rejected", rating)
	}
}

func TestUpsertReview_RejectsUnknownBook(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, NewEventService(db), nil)
	insertUser(t, db, "u1", "alice")

	_, err := svc.UpsertReview("u1", "missing", 4, "")
	assert.ErrorContains(t, err, "not found")
}

func TestUpsertReview_RecordsActivityEvent(t *testing.T) {
	db := newTestDB(t)
	eventSvc := NewEventService(db)
	svc := NewReviewService(db, eventSvc, nil)

	insertUser(t, db, "u1", "alice")
	insertBook(t, db, "b1", "One", "Sci-Fi")

	_, err := svc.UpsertReview("u1", "b1", 4, "")
	require.NoError(t, err)

	events, err := eventSvc.GetRecentEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "review.submitted", events[0].Type)
	require.NotNil(t, events[0].BookID)
	assert.Equal(t, "b1", *events[0].BookID)
}

func TestGetUserReview_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db, NewEventService(db), nil)

	_, err := svc.GetUserReview("u1", "b1")
	assert.ErrorContains(t, err, "no review")
}

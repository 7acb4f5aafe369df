package models

import "time"

// Review is one user's rating of one book. A user can hold at most one
// review per book; resubmitting replaces the rating and comment in place.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BookID    string    `json:"bookId"`
	Rating    int       `json:"rating"` // 1 to 5
	Comment   string    `json:"comment,omitempty"`
	Username  string    `json:"username,omitempty"` // joined for display, not stored
	CreatedAt time.Time `json:"createdAt"`
}

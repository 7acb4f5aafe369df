package models

import "time"

// Book represents a catalog item. The catalog is seeded at startup and
// read-only from the recommendation engine's perspective.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RankedBook pairs a book with its average rating across all users.
// AvgRating is nil for books that have never been reviewed; such books
// sort below every reviewed book in a ranking.
type RankedBook struct {
	Book
	AvgRating   *float64 `json:"avgRating"`
	ReviewCount int      `json:"reviewCount,omitempty"`
}

// GenreAffinity is a genre together with the number of highly-rated
// reviews a user has submitted in it.
type GenreAffinity struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

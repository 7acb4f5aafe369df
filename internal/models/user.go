package models

import "time"

// User represents a reader account in the system. Accounts are immutable
// after registration apart from password rotation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// Package models defines the core data structures for users and posts.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user, assigned once at creation.
	ID string
	// Username is the login name chosen by the user, stored lower-cased.
	Username string
	// Email is the user's address, unique and stored lower-cased.
	Email string
	// PasswordHash is the bcrypt hash of the user's password. The plaintext
	// never persists past the request that created or verified it.
	PasswordHash []byte
	// CreatedAt is set once when the record is inserted.
	CreatedAt time.Time
}

// Visibility defines who can see a post.
type Visibility string

const (
	// VisibilityPublic makes a post readable by anyone.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate restricts a post to its owner. This is the default.
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the defined visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Post is a user-authored record with a type tag and a score.
type Post struct {
	// ID is the unique identifier for the post.
	ID string `json:"id"`
	// UserID references the owning user.
	UserID string `json:"user_id"`
	// Type is a caller-supplied category tag.
	Type string `json:"type"`
	// Score is the numeric value attached to the post.
	Score float64 `json:"score"`
	// Visibility is "public" or "private".
	Visibility Visibility `json:"visibility"`
	// CreatedAt is set once when the record is inserted.
	CreatedAt time.Time `json:"createdAt"`
}

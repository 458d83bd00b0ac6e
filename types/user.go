package types

import "time"

// User represents an account in the movie catalog.
// It holds the login identity, profile fields and the user's favorites.
type User struct {
	// ID is the unique identifier of the user. It is a UUID for the
	// relational and in-memory stores and an ObjectID hex string for Mongo.
	ID string `json:"id"`

	// Username is the unique, alphanumeric login name chosen by the user.
	Username string `json:"username"`

	// PasswordHash stores the bcrypt digest of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Birthday is the user's date of birth, if provided.
	Birthday *time.Time `json:"birthday,omitempty"`

	// FavoriteMovies lists the IDs of the user's favorite movies in the
	// order they were added. An ID appears at most once.
	FavoriteMovies []string `json:"favorite_movies"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at"`
}

// HasFavorite reports whether movieID is already in the user's favorites.
func (u User) HasFavorite(movieID string) bool {
	for _, id := range u.FavoriteMovies {
		if id == movieID {
			return true
		}
	}
	return false
}

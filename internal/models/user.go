package models

import "time"

// User is the identity record behind a session.
type User struct {
	ID           string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is the preference state owned by one user.
type UserProfile struct {
	UID            string   `json:"uid"`
	Email          string   `json:"email"`
	DisplayName    string   `json:"displayName"`
	PhotoURL       string   `json:"photoURL"`
	Interests      []string `json:"interests"`      // genre names
	FavoriteAnimes []string `json:"favoriteAnimes"` // free-text titles
	Onboarded      bool     `json:"onboarded"`
}

// UserDocument is the per-user aggregate: profile plus watchlist.
type UserDocument struct {
	UserProfile
	Watchlist Watchlist `json:"watchlist"`
}

// ProfileUpdate is a partial profile write. Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName    *string  `json:"displayName,omitempty"`
	PhotoURL       *string  `json:"photoURL,omitempty"`
	Interests      []string `json:"interests,omitempty"`
	FavoriteAnimes []string `json:"favoriteAnimes,omitempty"`
	Onboarded      *bool    `json:"onboarded,omitempty"`
}

// Genres offered during onboarding.
var Genres = []string{
	"Action", "Adventure", "Comedy", "Drama", "Fantasy",
	"Horror", "Mystery", "Romance", "Sci-Fi", "Slice of Life",
	"Sports", "Supernatural", "Thriller", "Isekai", "Mecha",
}

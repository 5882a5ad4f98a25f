package domain

import "time"

// User is a stored account. Email and Username are each unique.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt or argon2id encoded
	CreatedAt    time.Time
}

// Identity is the public view of a user returned to clients.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
}

// Identity strips the credential from u.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

package models

import "time"

// User is a stored identity. PasswordHash never leaves the server; use
// Public for anything sent to a client.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the client-safe view of a User.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// Identity is the caller resolved from a verified session token.
type Identity struct {
	UserID string
	Email  string
}

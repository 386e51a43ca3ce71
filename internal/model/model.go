package model

import "time"

// User is an account persisted in the document store. The password hash
// never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthResult is what a successful signup or login produces: the account
// plus a signed session token.
type AuthResult struct {
	User  User
	Token string
}

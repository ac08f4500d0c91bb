package users

import (
	"time"

	"restaurant-api/internal/auth"
)

type Status string

const (
	StatusCustomer Status = "customer"
	StatusAdmin    Status = "admin"
)

func (s Status) Valid() bool {
	return s == StatusCustomer || s == StatusAdmin
}

// User is a stored identity. PasswordHash never leaves this package's
// callers in a response or a token; use Public or Claims.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Status       Status    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PublicUser is the client-facing projection of a User.
type PublicUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status Status `json:"status"`
}

// Stripped returns a copy with the password hash blanked.
func (u User) Stripped() User {
	u.PasswordHash = ""
	return u
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Status: u.Status}
}

// Claims builds the token claim set from the record.
func (u User) Claims() auth.ClaimSet {
	return auth.ClaimSet{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Status: string(u.Status),
	}
}

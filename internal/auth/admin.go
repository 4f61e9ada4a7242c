package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

// Admin is a dashboard user. The plaintext password is never stored, only its bcrypt hash.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Admin) Identity() Identity {
	return Identity{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
	}
}

// Identity is what a session token carries and what protected handlers act on behalf of.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AdminStore is the admin part of the record store.
// Lookups return ErrAdminNotFound when nothing matches.
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	FindByID(ctx context.Context, id string) (*Admin, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

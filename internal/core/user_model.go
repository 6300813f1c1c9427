package core

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidCredentials is returned for an unknown user, an inactive user,
// or a wrong password. The three cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUserExists is returned when a username or email is already taken.
var ErrUserExists = errors.New("user already exists")

// User is a staff account allowed to record sales.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserService provides user lookup and password authentication.
type UserService interface {
	// GetByUsername finds an active user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID returns a user by primary key.
	GetByID(ctx context.Context, userID int) (*User, error)

	// Authenticate checks a password against the stored bcrypt hash.
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// CreateUser stores a new active user with a bcrypt-hashed password.
	CreateUser(ctx context.Context, username, email, password, role string) (*User, error)
}

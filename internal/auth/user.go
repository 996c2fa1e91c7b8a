package auth

import (
	"context"
	"errors"
	"time"
)

// Role is a user's authorization role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a registered account. PasswordHash never leaves this package.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// SafeUser is the externally visible view of a User.
type SafeUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Safe returns the user without its password hash.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

var (
	// ErrDuplicateEmail is returned when registering an email that exists.
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrUserNotFound is returned by repositories for unknown users.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines the persistent store for user accounts.
type UserRepository interface {
	// Create persists a new user, returning ErrDuplicateEmail when the
	// email is already registered.
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

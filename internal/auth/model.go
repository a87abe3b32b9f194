package auth

import (
	"errors"
	"time"
)

// User is an account that owns cases.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is a server-side login session identified by an opaque token.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession is returned for missing or expired session tokens.
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidInput marks a rejected register or login payload.
	ErrInvalidInput = errors.New("invalid input")
)

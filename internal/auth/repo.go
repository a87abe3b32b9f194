package auth

import (
	"context"
	"time"
)

// UserRepo abstracts user persistence.
type UserRepo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
}

// SessionRepo abstracts login session persistence.
type SessionRepo interface {
	Create(ctx context.Context, sess Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

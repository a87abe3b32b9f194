package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PGUserRepo implements UserRepo on Postgres.
type PGUserRepo struct {
	DB *sql.DB
}

// NewPGUserRepo constructs a PGUserRepo.
func NewPGUserRepo(db *sql.DB) *PGUserRepo {
	return &PGUserRepo{DB: db}
}

func (r *PGUserRepo) Create(ctx context.Context, user User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, full_name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Username, user.FullName, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PGUserRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, `
		SELECT id, username, full_name, email, password_hash, created_at
		FROM users
		WHERE id = $1
	`, userID))
}

func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, `
		SELECT id, username, full_name, email, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username))
}

func (r *PGUserRepo) scanOne(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// PGSessionRepo implements SessionRepo on Postgres.
type PGSessionRepo struct {
	DB *sql.DB
}

// NewPGSessionRepo constructs a PGSessionRepo.
func NewPGSessionRepo(db *sql.DB) *PGSessionRepo {
	return &PGSessionRepo{DB: db}
}

func (r *PGSessionRepo) Create(ctx context.Context, sess Session) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, sess.Token, sess.UserID, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *PGSessionRepo) Get(ctx context.Context, token string) (Session, error) {
	var s Session
	err := r.DB.QueryRowContext(ctx, `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrInvalidSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	return s, nil
}

func (r *PGSessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *PGSessionRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}

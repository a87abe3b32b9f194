package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"casefile-backend/internal/shared/telemetry"
)

// Service contains business logic for accounts and login sessions.
type Service struct {
	Users      UserRepo
	Sessions   SessionRepo
	SessionTTL time.Duration
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Username string
	FullName string
	Email    string
	Password string
}

// Register creates an account and opens a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, string, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	if err := validateRegister(in); err != nil {
		return User{}, "", err
	}

	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return User{}, "", ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, "", err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, "", err
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and opens a new session.
func (s *Service) Login(ctx context.Context, username, password string) (User, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return User{}, "", fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return User{}, "", err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Logout revokes a session token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, token)
}

// Validate resolves a session token to a user ID. Expired sessions are
// removed as they are seen.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSession
	}
	sess, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.Sessions.Delete(ctx, token)
		return "", ErrInvalidSession
	}
	return sess.UserID, nil
}

// CurrentUser loads the account behind a user ID.
func (s *Service) CurrentUser(ctx context.Context, userID string) (User, error) {
	return s.Users.GetByID(ctx, userID)
}

// SeedDevUser ensures a demo account exists for local development.
func (s *Service) SeedDevUser(ctx context.Context) error {
	const username = "demo"
	if _, err := s.Users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := HashPassword("demo1234")
	if err != nil {
		return err
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     "Demo User",
		Email:        "demo@example.com",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return err
	}
	telemetry.Info("auth.dev_user_seeded", map[string]any{"username": username})
	return nil
}

func (s *Service) openSession(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	sess := Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(s.SessionTTL),
		CreatedAt: now,
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func validateRegister(in RegisterInput) error {
	switch {
	case in.Username == "":
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	case len(in.Password) < 8:
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	case strings.TrimSpace(in.FullName) == "":
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	case !strings.Contains(in.Email, "@"):
		return fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	return nil
}

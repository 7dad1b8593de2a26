package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/filevault/filevault/internal/model"
	"github.com/filevault/filevault/internal/repository"
)

type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// HashPassword returns the hex SHA-1 digest of the password. The digest
// is deterministic on purpose: login looks credentials up by exact
// {email, hash} match against the stored value.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login exchanges credentials for an opaque session token with a fixed
// TTL. Unknown credentials and lookup misses are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}

	user, err := s.users.ByCredentials(ctx, email, HashPassword(password))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	token := uuid.New().String()
	err = s.sessions.Create(ctx, token, user.ID, s.sessionTTL)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("session created", "user_id", user.ID)
	return token, nil
}

// Logout revokes the session for the given token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	err := s.sessions.Delete(ctx, token)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return ErrUnauthorized
	}
	return err
}

// ResolveUser maps a session token to its user. Callers treat a nil
// result as anonymous.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	userID, err := s.sessions.UserID(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/filevault/filevault/internal/model"
	"github.com/filevault/filevault/internal/queue"
	"github.com/filevault/filevault/internal/repository"
	"github.com/filevault/filevault/internal/validation"
)

type UserService struct {
	users repository.UserRepository
	queue queue.Queue
}

func NewUserService(users repository.UserRepository, q queue.Queue) *UserService {
	return &UserService{
		users: users,
		queue: q,
	}
}

// Register creates a user and queues the welcome notification. The
// notification is fire-and-forget: an enqueue failure is logged and the
// signup still succeeds.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, ErrInvalidEmail
	}

	user := &model.User{
		Email:        email,
		PasswordHash: HashPassword(password),
		CreatedAt:    time.Now(),
	}

	err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	job, err := queue.NewJob(queue.KindWelcome, queue.WelcomePayload{UserID: user.ID})
	if err == nil {
		err = s.queue.Enqueue(ctx, queue.UserQueue, job)
	}
	if err != nil {
		slog.Error("failed to enqueue welcome job", "error", err, "user_id", user.ID)
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.ByID(ctx, id)
}

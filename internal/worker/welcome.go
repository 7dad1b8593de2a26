package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/filevault/filevault/internal/queue"
	"github.com/filevault/filevault/internal/repository"
	"github.com/filevault/filevault/internal/service"
)

type WelcomeWorker struct {
	users repository.UserRepository
	email *service.EmailService
}

func NewWelcomeWorker(users repository.UserRepository, email *service.EmailService) *WelcomeWorker {
	return &WelcomeWorker{
		users: users,
		email: email,
	}
}

// Handle sends the welcome notification for a freshly registered user.
func (w *WelcomeWorker) Handle(ctx context.Context, job queue.Job) error {
	var payload queue.WelcomePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("malformed welcome payload: %w", err)
	}
	if payload.UserID == "" {
		return errors.New("missing userId")
	}

	user, err := w.users.ByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	return w.email.SendWelcomeEmail(ctx, user.Email)
}

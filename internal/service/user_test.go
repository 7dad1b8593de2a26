package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault/internal/queue"
	"github.com/filevault/filevault/internal/service"
	"github.com/filevault/filevault/internal/testutil"
)

func TestRegister(t *testing.T) {
	users := testutil.NewMemoryUserRepository()
	jobs := testutil.NewMemoryQueue()
	svc := service.NewUserService(users, jobs)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "bob@dylan.com", user.Email)

	// The password is never stored in the clear.
	assert.Equal(t, service.HashPassword("toto1234!"), user.PasswordHash)

	// Signup queues exactly one welcome job for the new user.
	require.Len(t, jobs.Jobs[queue.UserQueue], 1)
	job := jobs.Jobs[queue.UserQueue][0]
	assert.Equal(t, queue.KindWelcome, job.Kind)
	var payload queue.WelcomePayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, user.ID, payload.UserID)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	users := testutil.NewMemoryUserRepository()
	svc := service.NewUserService(users, testutil.NewMemoryQueue())
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Bob@Dylan.COM ", "toto1234!")
	require.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", user.Email)

	_, err = svc.Register(ctx, "BOB@DYLAN.COM", "other")
	assert.ErrorIs(t, err, service.ErrEmailExists)
}

func TestRegisterValidation(t *testing.T) {
	svc := service.NewUserService(testutil.NewMemoryUserRepository(), testutil.NewMemoryQueue())
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"missing email", "", "pw", service.ErrMissingEmail},
		{"missing password", "bob@dylan.com", "", service.ErrMissingPassword},
		{"not an address", "not-an-email", "pw", service.ErrInvalidEmail},
		{"missing domain", "bob@", "pw", service.ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.email, tc.password)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := testutil.NewMemoryUserRepository()
	jobs := testutil.NewMemoryQueue()
	svc := service.NewUserService(users, jobs)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob@dylan.com", "different")
	assert.ErrorIs(t, err, service.ErrEmailExists)

	// The failed signup must not queue a second welcome job.
	assert.Len(t, jobs.Jobs[queue.UserQueue], 1)
}

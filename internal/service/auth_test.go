package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault/internal/model"
	"github.com/filevault/filevault/internal/service"
	"github.com/filevault/filevault/internal/testutil"
)

func newAuthFixture(t *testing.T, ttl time.Duration) (*service.AuthService, *testutil.MemoryUserRepository) {
	t.Helper()
	users := testutil.NewMemoryUserRepository()
	sessions := testutil.NewMemorySessionRepository()
	return service.NewAuthService(users, sessions, ttl), users
}

func seedUser(t *testing.T, users *testutil.MemoryUserRepository, email, password string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: service.HashPassword(password),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestLoginLogoutFlow(t *testing.T) {
	auth, users := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	user := seedUser(t, users, "bob@dylan.com", "toto1234!")

	token, err := auth.Login(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	resolved, err := auth.ResolveUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "bob@dylan.com", resolved.Email)

	require.NoError(t, auth.Logout(ctx, token))

	_, err = auth.ResolveUser(ctx, token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	// Revoking an already-revoked token is a failure, not a no-op.
	assert.ErrorIs(t, auth.Logout(ctx, token), service.ErrUnauthorized)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth, users := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	seedUser(t, users, "bob@dylan.com", "toto1234!")

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "bob@dylan.com", "nope"},
		{"unknown email", "nobody@dylan.com", "toto1234!"},
		{"empty email", "", "toto1234!"},
		{"empty password", "bob@dylan.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Login(ctx, tc.email, tc.password)
			assert.ErrorIs(t, err, service.ErrUnauthorized)
		})
	}
}

func TestLoginIssuesDistinctTokens(t *testing.T) {
	auth, users := newAuthFixture(t, time.Hour)
	ctx := context.Background()

	seedUser(t, users, "bob@dylan.com", "toto1234!")

	first, err := auth.Login(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)
	second, err := auth.Login(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// Both sessions stay live independently.
	_, err = auth.ResolveUser(ctx, first)
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, second))
	_, err = auth.ResolveUser(ctx, first)
	require.NoError(t, err)
}

func TestSessionExpiry(t *testing.T) {
	auth, users := newAuthFixture(t, -time.Second)
	ctx := context.Background()

	seedUser(t, users, "bob@dylan.com", "toto1234!")

	token, err := auth.Login(ctx, "bob@dylan.com", "toto1234!")
	require.NoError(t, err)

	_, err = auth.ResolveUser(ctx, token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestHashPassword(t *testing.T) {
	// Digest must be stable so stored credentials keep matching.
	assert.Equal(t, "89cad29e3ebc1035b29b1478a8e70854f25fa2b2", service.HashPassword("toto1234!"))
	assert.NotEqual(t, service.HashPassword("a"), service.HashPassword("b"))
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
	"github.com/mergington-hub/activities-hub/internal/infrastructure/persistence/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	teachers := memory.NewTeacherStore()
	require.NoError(t, teachers.Save(context.Background(), &teacher.Teacher{
		Username:    "msmith",
		Secret:      "chess456",
		DisplayName: "Ms. Smith",
	}))

	return NewService(teachers, memory.NewSessionStore(), Config{}, nil)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "msmith", "chess456")
	require.NoError(t, err)
	assert.Equal(t, teacher.Username("msmith"), result.Username)
	assert.Equal(t, "Ms. Smith", result.DisplayName)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Wrong secret and unknown username look the same to the caller.
	_, err := svc.Login(ctx, "msmith", "wrong")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "chess456")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "msmith", "")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestCheckSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Never logged in: NotFound, not a boolean.
	_, err := svc.CheckSession(ctx, "msmith")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Login(ctx, "msmith", "chess456")
	require.NoError(t, err)

	valid, err := svc.CheckSession(ctx, "msmith")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestCheckSessionExpired(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "msmith", "chess456")
	require.NoError(t, err)

	// Move the clock past the TTL: the session record exists but is no
	// longer valid, so the answer is false rather than NotFound.
	svc.WithNow(func() time.Time { return time.Now().UTC().Add(DefaultSessionTTL + time.Minute) })

	valid, err := svc.CheckSession(ctx, "msmith")
	require.NoError(t, err)
	assert.False(t, valid)

	assert.ErrorIs(t, svc.RequireTeacher(ctx, "msmith"), shared.ErrUnauthorized)
}

func TestRequireTeacher(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.RequireTeacher(ctx, "msmith")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = svc.Login(ctx, "msmith", "chess456")
	require.NoError(t, err)
	assert.NoError(t, svc.RequireTeacher(ctx, "msmith"))

	err = svc.RequireTeacher(ctx, "")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "msmith", "chess456")
	require.NoError(t, err)
	require.NoError(t, svc.RequireTeacher(ctx, "msmith"))

	// Read-your-writes: once Logout returns, the gate is closed.
	require.NoError(t, svc.Logout(ctx, "msmith"))
	assert.ErrorIs(t, svc.RequireTeacher(ctx, "msmith"), shared.ErrUnauthorized)

	// Logging out twice is fine.
	assert.NoError(t, svc.Logout(ctx, "msmith"))
}

func TestCheckSessionAfterLogout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "msmith", "chess456")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, "msmith"))

	// A logged-out teacher has an invalid session, not a missing one:
	// NotFound stays reserved for usernames that never logged in.
	valid, err := svc.CheckSession(ctx, "msmith")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestLoginRefreshesSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "msmith", "chess456")
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return time.Now().UTC().Add(time.Hour) })

	second, err := svc.Login(ctx, "msmith", "chess456")
	require.NoError(t, err)
	assert.True(t, second.ExpiresAt.After(first.ExpiresAt))
}

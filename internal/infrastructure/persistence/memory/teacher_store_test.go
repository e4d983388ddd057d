package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
)

func TestSessionDeleteKeepsTombstone(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Now().UTC()

	// Never logged in: no record at all.
	_, err := store.Get(ctx, "msmith")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	session, err := teacher.NewSession("msmith", now, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, session))
	require.NoError(t, store.Delete(ctx, "msmith"))

	// After logout the record survives as an expired session, so the
	// caller reads "invalid" rather than "never logged in" — the same
	// answer the redis adapter gives via its login marker.
	got, err := store.Get(ctx, "msmith")
	require.NoError(t, err)
	assert.False(t, got.IsValid(now))

	// Deleting a username that never logged in stays a no-op.
	require.NoError(t, store.Delete(ctx, "nobody"))
	_, err = store.Get(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// A fresh login replaces the tombstone.
	relogin, err := teacher.NewSession("msmith", now, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, relogin))
	got, err = store.Get(ctx, "msmith")
	require.NoError(t, err)
	assert.True(t, got.IsValid(now))
}

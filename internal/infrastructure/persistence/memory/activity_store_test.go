package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
)

func TestStoreUnavailableOnDoneContext(t *testing.T) {
	store := NewActivityStore()
	chess, err := activity.New("Chess Club", "", "Fridays", 2)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), chess))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A store that cannot answer reports StoreUnavailable, never a
	// domain outcome.
	_, err = store.Get(ctx, "Chess Club")
	assert.True(t, shared.IsStoreUnavailable(err), err)

	_, err = store.List(ctx)
	assert.True(t, shared.IsStoreUnavailable(err), err)

	_, err = store.AddParticipant(ctx, "Chess Club", "alice@mergington.edu")
	assert.True(t, shared.IsStoreUnavailable(err), err)

	_, err = store.RemoveParticipant(ctx, "Chess Club", "alice@mergington.edu")
	assert.True(t, shared.IsStoreUnavailable(err), err)

	assert.True(t, shared.IsStoreUnavailable(store.Save(ctx, chess)))
}

func TestSavePreservesRoster(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore()

	chess, err := activity.New("Chess Club", "old description", "Fridays", 2)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, chess))
	_, err = store.AddParticipant(ctx, "Chess Club", "alice@mergington.edu")
	require.NoError(t, err)

	update, err := activity.New("Chess Club", "new description", "Mondays", 3)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, update))

	got, err := store.Get(ctx, "Chess Club")
	require.NoError(t, err)
	assert.Equal(t, "new description", got.Description)
	assert.Equal(t, 3, got.MaxParticipants)
	assert.True(t, got.HasParticipant("alice@mergington.edu"))

	// Shrinking capacity below the roster is rejected, like the check
	// constraint in the SQL adapter.
	shrunk, err := activity.New("Chess Club", "", "Mondays", 1)
	require.NoError(t, err)
	_, err = store.AddParticipant(ctx, "Chess Club", "bob@mergington.edu")
	require.NoError(t, err)
	assert.True(t, shared.IsValidation(store.Save(ctx, shrunk)))
}

package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington-hub/activities-hub/internal/infrastructure/persistence/memory"
)

func TestDefaults(t *testing.T) {
	data := Defaults()

	assert.Len(t, data.Activities, 8)
	assert.Len(t, data.Teachers, 3)

	for _, a := range data.Activities {
		assert.NotEmpty(t, a.Name)
		assert.Positive(t, a.MaxParticipants)
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	activities := memory.NewActivityStore()
	teachers := memory.NewTeacherStore()

	require.NoError(t, Apply(ctx, Defaults(), activities, teachers, nil))

	chess, err := activities.Get(ctx, "Chess Club")
	require.NoError(t, err)
	assert.Equal(t, 12, chess.MaxParticipants)
	assert.Empty(t, chess.Participants)

	principal, err := teachers.Get(ctx, "principal")
	require.NoError(t, err)
	assert.Equal(t, "Principal Martinez", principal.DisplayName)
}

func TestApplyPreservesRoster(t *testing.T) {
	ctx := context.Background()
	activities := memory.NewActivityStore()
	teachers := memory.NewTeacherStore()

	require.NoError(t, Apply(ctx, Defaults(), activities, teachers, nil))
	_, err := activities.AddParticipant(ctx, "Chess Club", "alice@mergington.edu")
	require.NoError(t, err)

	// Re-seeding must not wipe the roster accumulated since the first run.
	require.NoError(t, Apply(ctx, Defaults(), activities, teachers, nil))

	chess, err := activities.Get(ctx, "Chess Club")
	require.NoError(t, err)
	assert.True(t, chess.HasParticipant("alice@mergington.edu"))
}

func TestApplyRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	data := Data{
		Activities: []ActivitySeed{{Name: "Chess Club", MaxParticipants: 0}},
	}

	err := Apply(ctx, data, memory.NewActivityStore(), memory.NewTeacherStore(), nil)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"activities": [
			{"name": "Robotics", "schedule": "Mondays", "max_participants": 8,
			 "participants": ["dana@mergington.edu"]}
		],
		"teachers": [
			{"username": "rlee", "secret": "robots1", "display_name": "Mr. Lee"}
		]
	}`), 0o644))

	data, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, data.Activities, 1)
	assert.Equal(t, "Robotics", data.Activities[0].Name)
	assert.Equal(t, []string{"dana@mergington.edu"}, data.Activities[0].Participants)
	require.Len(t, data.Teachers, 1)
	assert.Equal(t, "rlee", data.Teachers[0].Username)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
)

func rosterFixture(t *testing.T, max int, members ...activity.StudentEmail) *activity.Activity {
	t.Helper()
	a, err := activity.New("Chess Club", "", "Fridays", max)
	require.NoError(t, err)
	for _, m := range members {
		require.NoError(t, a.SignUp(m))
	}
	return a
}

func TestDiagnoseSignUp(t *testing.T) {
	// Member at re-read: the duplicate check rejected the statement.
	a := rosterFixture(t, 2, "alice@mergington.edu")
	assert.ErrorIs(t, diagnoseSignUp(a, "alice@mergington.edu"), shared.ErrAlreadyRegistered)

	// Full at re-read: the capacity check rejected it. Membership still
	// wins when both hold.
	full := rosterFixture(t, 2, "alice@mergington.edu", "bob@mergington.edu")
	assert.ErrorIs(t, diagnoseSignUp(full, "carol@mergington.edu"), shared.ErrCapacityExceeded)
	assert.ErrorIs(t, diagnoseSignUp(full, "alice@mergington.edu"), shared.ErrAlreadyRegistered)

	// Neither cause holds: a concurrent unregister freed a spot after the
	// statement ran, so the signup must be retried, not misreported.
	open := rosterFixture(t, 2, "bob@mergington.edu")
	assert.NoError(t, diagnoseSignUp(open, "carol@mergington.edu"))
}

func TestDiagnoseUnregister(t *testing.T) {
	a := rosterFixture(t, 2, "alice@mergington.edu")

	assert.ErrorIs(t, diagnoseUnregister(a, "bob@mergington.edu"), shared.ErrNotRegistered)

	// Member at re-read: a concurrent signup raced the removal statement.
	assert.NoError(t, diagnoseUnregister(a, "alice@mergington.edu"))
}

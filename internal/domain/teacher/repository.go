package teacher

import (
	"context"
)

// Repository defines the interface for teacher account persistence.
// Accounts are created by seeding and read-only afterward.
//
// Implementations must report shared.ErrNotFound for unknown usernames and
// shared.ErrStoreUnavailable when storage does not respond within its bound.
type Repository interface {
	// Get returns the teacher with the given username.
	Get(ctx context.Context, username Username) (*Teacher, error)

	// List returns every teacher, ordered by username.
	List(ctx context.Context) ([]*Teacher, error)

	// Save upserts a teacher record. Used by seeding only.
	Save(ctx context.Context, t *Teacher) error
}

// SessionStore defines the interface for session persistence. Sessions are
// keyed by teacher username; storing a session replaces any prior one.
//
// Get must report shared.ErrNotFound for usernames that have never logged
// in. Expired sessions may either be returned (the caller checks IsValid)
// or treated as absent after the store's own expiry reaping.
type SessionStore interface {
	// Put stores the session, replacing any existing session for the
	// same username.
	Put(ctx context.Context, s *Session) error

	// Get returns the session for the username.
	Get(ctx context.Context, username Username) (*Session, error)

	// Delete removes the session for the username. Deleting an absent
	// session is not an error: once Delete returns, Get must not observe
	// the old session (read-your-writes for the issuing caller).
	Delete(ctx context.Context, username Username) error
}

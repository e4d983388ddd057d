// Package activity contains domain entities and business logic for
// extracurricular activities and their participant rosters.
package activity

import (
	"context"
)

// Repository defines the interface for activity persistence.
// This interface is implemented by the infrastructure layer; the domain
// layer has no knowledge of the actual storage mechanism.
//
// Implementations must report shared.ErrNotFound for missing activities and
// shared.ErrStoreUnavailable when storage does not respond within its bound.
type Repository interface {
	// Get returns the activity with the given name.
	Get(ctx context.Context, name Name) (*Activity, error)

	// List returns every activity, ordered by name.
	List(ctx context.Context) ([]*Activity, error)

	// Save upserts an activity record. Used by seeding; roster mutation
	// goes through AddParticipant and RemoveParticipant only.
	Save(ctx context.Context, a *Activity) error

	// AddParticipant atomically checks membership and capacity and adds the
	// student to the roster, returning the updated participant count.
	// The membership check, capacity check, and write are a single
	// read-modify-write: two concurrent calls can never jointly push a
	// roster past MaxParticipants.
	// Returns shared.ErrAlreadyRegistered or shared.ErrCapacityExceeded
	// when the corresponding check fails.
	AddParticipant(ctx context.Context, name Name, email StudentEmail) (count int, err error)

	// RemoveParticipant atomically checks membership and removes the student
	// from the roster, returning the updated participant count.
	// Returns shared.ErrNotRegistered if the student is not on the roster.
	RemoveParticipant(ctx context.Context, name Name, email StudentEmail) (count int, err error)
}

package announcement

import (
	"context"
)

// Repository defines the interface for announcement persistence.
//
// Implementations must report shared.ErrNotFound for unknown IDs and
// shared.ErrStoreUnavailable when storage does not respond within its bound.
type Repository interface {
	// Get returns the announcement with the given ID.
	Get(ctx context.Context, id ID) (*Announcement, error)

	// List returns every announcement, most recently updated first.
	List(ctx context.Context) ([]*Announcement, error)

	// Save upserts an announcement record.
	Save(ctx context.Context, a *Announcement) error

	// Delete removes an announcement permanently.
	// Returns shared.ErrNotFound if the ID is unknown.
	Delete(ctx context.Context, id ID) error
}

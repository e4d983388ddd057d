// Package memory implements in-memory store adapters for all collections.
// Used for isolated unit tests and for running the hub without external
// storage. Every adapter guards its map with a mutex, so the conditional
// read-modify-write operations are atomic per store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
)

// ActivityStore implements activity.Repository in memory.
type ActivityStore struct {
	mu         sync.RWMutex
	activities map[activity.Name]*activity.Activity
}

// NewActivityStore creates an empty in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		activities: make(map[activity.Name]*activity.Activity),
	}
}

// Get returns a clone of the activity with the given name.
func (s *ActivityStore) Get(ctx context.Context, name activity.Name) (*activity.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, shared.WrapError("activity_store", "Get", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		return nil, shared.NewDomainError("activity_store", "Get", shared.ErrNotFound, "activity not found")
	}
	return a.Clone(), nil
}

// List returns clones of every activity, ordered by name.
func (s *ActivityStore) List(ctx context.Context) ([]*activity.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, shared.WrapError("activity_store", "List", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*activity.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		all = append(all, a.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// Save upserts an activity record. Re-saving never clobbers an existing
// roster: only the descriptive fields are refreshed.
func (s *ActivityStore) Save(ctx context.Context, a *activity.Activity) error {
	if err := ctx.Err(); err != nil {
		return shared.WrapError("activity_store", "Save", shared.ErrStoreUnavailable, "context done", err)
	}
	if err := a.Validate(); err != nil {
		return shared.WrapError("activity_store", "Save", shared.ErrValidation, "invalid activity", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.activities[a.Name]; ok {
		if len(existing.Participants) > a.MaxParticipants {
			return shared.NewDomainError("activity_store", "Save", shared.ErrValidation, "roster exceeds new capacity")
		}
		existing.Description = a.Description
		existing.Schedule = a.Schedule
		existing.MaxParticipants = a.MaxParticipants
		return nil
	}
	s.activities[a.Name] = a.Clone()
	return nil
}

// AddParticipant atomically checks membership and capacity and appends the
// student under the store lock, so two concurrent calls cannot jointly
// overshoot MaxParticipants.
func (s *ActivityStore) AddParticipant(ctx context.Context, name activity.Name, email activity.StudentEmail) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, shared.WrapError("activity_store", "AddParticipant", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return 0, shared.NewDomainError("activity_store", "AddParticipant", shared.ErrNotFound, "activity not found")
	}
	if err := a.SignUp(email); err != nil {
		return 0, shared.NewDomainError("activity_store", "AddParticipant", err, "signup rejected")
	}
	return len(a.Participants), nil
}

// RemoveParticipant atomically checks membership and removes the student
// under the store lock.
func (s *ActivityStore) RemoveParticipant(ctx context.Context, name activity.Name, email activity.StudentEmail) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, shared.WrapError("activity_store", "RemoveParticipant", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return 0, shared.NewDomainError("activity_store", "RemoveParticipant", shared.ErrNotFound, "activity not found")
	}
	if err := a.Unregister(email); err != nil {
		return 0, shared.NewDomainError("activity_store", "RemoveParticipant", err, "unregister rejected")
	}
	return len(a.Participants), nil
}

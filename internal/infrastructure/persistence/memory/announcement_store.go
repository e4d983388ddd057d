package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mergington-hub/activities-hub/internal/domain/announcement"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
)

// AnnouncementStore implements announcement.Repository in memory.
type AnnouncementStore struct {
	mu            sync.RWMutex
	announcements map[announcement.ID]*announcement.Announcement
}

// NewAnnouncementStore creates an empty in-memory announcement store.
func NewAnnouncementStore() *AnnouncementStore {
	return &AnnouncementStore{
		announcements: make(map[announcement.ID]*announcement.Announcement),
	}
}

// Get returns a clone of the announcement with the given ID.
func (s *AnnouncementStore) Get(ctx context.Context, id announcement.ID) (*announcement.Announcement, error) {
	if err := ctx.Err(); err != nil {
		return nil, shared.WrapError("announcement_store", "Get", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.announcements[id]
	if !ok {
		return nil, shared.NewDomainError("announcement_store", "Get", shared.ErrNotFound, "announcement not found")
	}
	return a.Clone(), nil
}

// List returns clones of every announcement, most recently updated first.
func (s *AnnouncementStore) List(ctx context.Context) ([]*announcement.Announcement, error) {
	if err := ctx.Err(); err != nil {
		return nil, shared.WrapError("announcement_store", "List", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*announcement.Announcement, 0, len(s.announcements))
	for _, a := range s.announcements {
		all = append(all, a.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	return all, nil
}

// Save upserts an announcement record.
func (s *AnnouncementStore) Save(ctx context.Context, a *announcement.Announcement) error {
	if err := ctx.Err(); err != nil {
		return shared.WrapError("announcement_store", "Save", shared.ErrStoreUnavailable, "context done", err)
	}
	if err := a.Validate(); err != nil {
		return shared.WrapError("announcement_store", "Save", shared.ErrValidation, "invalid announcement", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.announcements[a.ID] = a.Clone()
	return nil
}

// Delete removes an announcement permanently.
func (s *AnnouncementStore) Delete(ctx context.Context, id announcement.ID) error {
	if err := ctx.Err(); err != nil {
		return shared.WrapError("announcement_store", "Delete", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.announcements[id]; !ok {
		return shared.NewDomainError("announcement_store", "Delete", shared.ErrNotFound, "announcement not found")
	}
	delete(s.announcements, id)
	return nil
}

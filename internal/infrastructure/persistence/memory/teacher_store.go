package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
)

// TeacherStore implements teacher.Repository in memory.
type TeacherStore struct {
	mu       sync.RWMutex
	teachers map[teacher.Username]*teacher.Teacher
}

// NewTeacherStore creates an empty in-memory teacher store.
func NewTeacherStore() *TeacherStore {
	return &TeacherStore{
		teachers: make(map[teacher.Username]*teacher.Teacher),
	}
}

// Get returns the teacher with the given username.
func (s *TeacherStore) Get(ctx context.Context, username teacher.Username) (*teacher.Teacher, error) {
	if err := ctx.Err(); err != nil {
		return nil, shared.WrapError("teacher_store", "Get", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teachers[username]
	if !ok {
		return nil, shared.NewDomainError("teacher_store", "Get", shared.ErrNotFound, "teacher not found")
	}
	copied := *t
	return &copied, nil
}

// List returns every teacher, ordered by username.
func (s *TeacherStore) List(ctx context.Context) ([]*teacher.Teacher, error) {
	if err := ctx.Err(); err != nil {
		return nil, shared.WrapError("teacher_store", "List", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*teacher.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		copied := *t
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return all, nil
}

// Save upserts a teacher record.
func (s *TeacherStore) Save(ctx context.Context, t *teacher.Teacher) error {
	if err := ctx.Err(); err != nil {
		return shared.WrapError("teacher_store", "Save", shared.ErrStoreUnavailable, "context done", err)
	}
	if !t.Username.IsValid() {
		return shared.NewDomainError("teacher_store", "Save", shared.ErrValidation, "username is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *t
	s.teachers[t.Username] = &copied
	return nil
}

// SessionStore implements teacher.SessionStore in memory. Sessions are
// kept after expiry and logout; validity is the caller's check, which
// matches the "NotFound only when never logged in" contract.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[teacher.Username]*teacher.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[teacher.Username]*teacher.Session),
	}
}

// Put stores the session, replacing any existing one for the username.
func (s *SessionStore) Put(ctx context.Context, session *teacher.Session) error {
	if err := ctx.Err(); err != nil {
		return shared.WrapError("session_store", "Put", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[session.Username] = &copied
	return nil
}

// Get returns the session for the username.
func (s *SessionStore) Get(ctx context.Context, username teacher.Username) (*teacher.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, shared.WrapError("session_store", "Get", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[username]
	if !ok {
		return nil, shared.NewDomainError("session_store", "Get", shared.ErrNotFound, "no session for username")
	}
	copied := *session
	return &copied, nil
}

// Delete invalidates the session for the username. The record is kept as
// an expired tombstone, like the redis adapter's login marker, so a
// logged-out teacher reads as "invalid" rather than "never logged in".
// Absence is not an error.
func (s *SessionStore) Delete(ctx context.Context, username teacher.Username) error {
	if err := ctx.Err(); err != nil {
		return shared.WrapError("session_store", "Delete", shared.ErrStoreUnavailable, "context done", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[username]; ok {
		session.ExpiresAt = session.CreatedAt
	}
	return nil
}

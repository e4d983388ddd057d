// Package announcements implements the announcement manager: CRUD over
// school announcements with an active display lifecycle, gated by the
// session validator.
package announcements

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mergington-hub/activities-hub/internal/domain/announcement"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
	"github.com/mergington-hub/activities-hub/pkg/logger"
)

const domain = "announcement"

// SessionChecker gates teacher-only operations on a valid session.
// Implemented by the auth service.
type SessionChecker interface {
	RequireTeacher(ctx context.Context, username teacher.Username) error
}

// Service owns announcement records and their identifiers. IDs are UUIDs
// assigned here and nowhere else, so concurrent creates never collide.
type Service struct {
	announcements announcement.Repository
	sessions      SessionChecker
	log           *logger.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates a new announcements service.
func NewService(repo announcement.Repository, sessions SessionChecker, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		announcements: repo,
		sessions:      sessions,
		log:           log.With(logger.String("component", domain)),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ListActive returns announcements currently eligible for public display,
// newest first. Public read, no authorization required.
func (s *Service) ListActive(ctx context.Context) ([]*announcement.Announcement, error) {
	all, err := s.announcements.List(ctx)
	if err != nil {
		return nil, s.wrapStoreErr("ListActive", "announcement listing failed", err)
	}

	now := s.now()
	visible := make([]*announcement.Announcement, 0, len(all))
	for _, a := range all {
		if a.IsVisible(now) {
			visible = append(visible, a)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible, nil
}

// ListAll returns every announcement regardless of display state, most
// recently updated first. Teacher-only.
func (s *Service) ListAll(ctx context.Context, requestingTeacher teacher.Username) ([]*announcement.Announcement, error) {
	if err := s.sessions.RequireTeacher(ctx, requestingTeacher); err != nil {
		return nil, err
	}

	all, err := s.announcements.List(ctx)
	if err != nil {
		return nil, s.wrapStoreErr("ListAll", "announcement listing failed", err)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})
	return all, nil
}

// CreateCommand contains the data to create an announcement.
type CreateCommand struct {
	RequestingTeacher teacher.Username
	Title             string
	Body              string

	// StartAt and EndAt bound the optional display window.
	StartAt *time.Time
	EndAt   *time.Time
}

// Create assigns a fresh unique ID, stamps both timestamps with "now", and
// stores the announcement active by default. Teacher-only.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*announcement.Announcement, error) {
	if err := s.sessions.RequireTeacher(ctx, cmd.RequestingTeacher); err != nil {
		return nil, err
	}

	id := announcement.ID(uuid.NewString())
	a, err := announcement.New(id, cmd.RequestingTeacher, cmd.Title, cmd.Body, cmd.StartAt, cmd.EndAt, s.now())
	if err != nil {
		return nil, shared.WrapError(domain, "Create", shared.ErrValidation, "invalid announcement", err)
	}

	if err := s.announcements.Save(ctx, a); err != nil {
		return nil, s.wrapStoreErr("Create", "announcement save failed", err)
	}

	s.log.Info("announcement created",
		logger.String("id", a.ID.String()),
		logger.String("author", a.Author.String()),
		logger.String("title", a.Title),
	)
	return a, nil
}

// UpdateCommand contains a partial update for an announcement.
type UpdateCommand struct {
	RequestingTeacher teacher.Username
	ID                announcement.ID
	Fields            announcement.Update
}

// Update applies only the provided fields and refreshes the modified
// timestamp. Teacher-only. Fails with NotFound for unknown IDs.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*announcement.Announcement, error) {
	if err := s.sessions.RequireTeacher(ctx, cmd.RequestingTeacher); err != nil {
		return nil, err
	}
	if !cmd.ID.IsValid() {
		return nil, shared.NewDomainError(domain, "Update", shared.ErrNotFound, "announcement id is required")
	}

	a, err := s.announcements.Get(ctx, cmd.ID)
	if err != nil {
		return nil, s.wrapStoreErr("Update", "announcement lookup failed", err)
	}

	if err := a.Apply(cmd.Fields, s.now()); err != nil {
		return nil, shared.WrapError(domain, "Update", shared.ErrValidation, "invalid update", err)
	}
	if err := s.announcements.Save(ctx, a); err != nil {
		return nil, s.wrapStoreErr("Update", "announcement save failed", err)
	}

	s.log.Info("announcement updated",
		logger.String("id", a.ID.String()),
		logger.String("teacher", cmd.RequestingTeacher.String()),
	)
	return a, nil
}

// Delete removes an announcement permanently. Teacher-only. Fails with
// NotFound for unknown IDs.
func (s *Service) Delete(ctx context.Context, requestingTeacher teacher.Username, id announcement.ID) error {
	if err := s.sessions.RequireTeacher(ctx, requestingTeacher); err != nil {
		return err
	}
	if !id.IsValid() {
		return shared.NewDomainError(domain, "Delete", shared.ErrNotFound, "announcement id is required")
	}

	if err := s.announcements.Delete(ctx, id); err != nil {
		return s.wrapStoreErr("Delete", "announcement delete failed", err)
	}

	s.log.Info("announcement deleted",
		logger.String("id", id.String()),
		logger.String("teacher", requestingTeacher.String()),
	)
	return nil
}

// WithNow replaces the clock. Intended for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) wrapStoreErr(op, msg string, err error) error {
	if shared.IsNotFound(err) || shared.IsStoreUnavailable(err) {
		return err
	}
	return shared.WrapError(domain, op, shared.ErrStoreUnavailable, msg, err)
}

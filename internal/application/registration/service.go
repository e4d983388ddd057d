// Package registration implements the registration engine: capacity-safe
// activity signup, unregistration, and the public activity listing.
package registration

import (
	"context"

	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
	"github.com/mergington-hub/activities-hub/pkg/logger"
)

const domain = "registration"

// SessionChecker gates mutating operations on a valid teacher session.
// Implemented by the auth service.
type SessionChecker interface {
	RequireTeacher(ctx context.Context, username teacher.Username) error
}

// Service enforces the registration invariants against the activity store.
// The service itself is stateless; all mutable state lives behind the
// repository, whose AddParticipant/RemoveParticipant are atomic per
// activity.
type Service struct {
	activities activity.Repository
	sessions   SessionChecker
	log        *logger.Logger
}

// NewService creates a new registration service.
func NewService(activities activity.Repository, sessions SessionChecker, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		activities: activities,
		sessions:   sessions,
		log:        log.With(logger.String("component", domain)),
	}
}

// SignUpCommand contains the data to sign a student up for an activity.
type SignUpCommand struct {
	Activity          activity.Name
	Email             activity.StudentEmail
	RequestingTeacher teacher.Username
}

// Validate validates the command.
func (c SignUpCommand) Validate() error {
	if !c.Activity.IsValid() {
		return shared.NewDomainError(domain, "SignUp", shared.ErrEmptyValue, "activity name is required")
	}
	if !c.Email.IsValid() {
		return shared.NewDomainError(domain, "SignUp", shared.ErrEmptyValue, "student email is required")
	}
	return nil
}

// RosterResult reports the roster size after a successful mutation.
type RosterResult struct {
	Activity activity.Name
	Email    activity.StudentEmail
	Count    int
}

// SignUp adds a student to an activity's roster.
//
// Checks, in order: the activity exists (NotFound), the requesting teacher
// has a valid session (Unauthorized), the student is not already registered
// (AlreadyRegistered), and the roster has room (CapacityExceeded). The last
// two checks happen atomically with the write inside the repository, so
// concurrent signups can never overshoot MaxParticipants.
func (s *Service) SignUp(ctx context.Context, cmd SignUpCommand) (*RosterResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Existence first: an unauthorized caller probing a missing activity
	// still sees NotFound, matching the documented API.
	if _, err := s.activities.Get(ctx, cmd.Activity); err != nil {
		return nil, s.wrapStoreErr("SignUp", "activity lookup failed", err)
	}

	if err := s.sessions.RequireTeacher(ctx, cmd.RequestingTeacher); err != nil {
		return nil, err
	}

	count, err := s.activities.AddParticipant(ctx, cmd.Activity, cmd.Email)
	if err != nil {
		return nil, s.wrapStoreErr("SignUp", "signup failed", err)
	}

	s.log.Info("student signed up",
		logger.String("activity", cmd.Activity.String()),
		logger.String("email", cmd.Email.String()),
		logger.String("teacher", cmd.RequestingTeacher.String()),
		logger.Int("count", count),
	)

	return &RosterResult{Activity: cmd.Activity, Email: cmd.Email, Count: count}, nil
}

// UnregisterCommand contains the data to remove a student from an activity.
type UnregisterCommand struct {
	Activity          activity.Name
	Email             activity.StudentEmail
	RequestingTeacher teacher.Username
}

// Validate validates the command.
func (c UnregisterCommand) Validate() error {
	if !c.Activity.IsValid() {
		return shared.NewDomainError(domain, "Unregister", shared.ErrEmptyValue, "activity name is required")
	}
	if !c.Email.IsValid() {
		return shared.NewDomainError(domain, "Unregister", shared.ErrEmptyValue, "student email is required")
	}
	return nil
}

// Unregister removes a student from an activity's roster. A student who is
// not on the roster is a reported NotRegistered error, not a silent no-op.
func (s *Service) Unregister(ctx context.Context, cmd UnregisterCommand) (*RosterResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.activities.Get(ctx, cmd.Activity); err != nil {
		return nil, s.wrapStoreErr("Unregister", "activity lookup failed", err)
	}

	if err := s.sessions.RequireTeacher(ctx, cmd.RequestingTeacher); err != nil {
		return nil, err
	}

	count, err := s.activities.RemoveParticipant(ctx, cmd.Activity, cmd.Email)
	if err != nil {
		return nil, s.wrapStoreErr("Unregister", "unregister failed", err)
	}

	s.log.Info("student unregistered",
		logger.String("activity", cmd.Activity.String()),
		logger.String("email", cmd.Email.String()),
		logger.String("teacher", cmd.RequestingTeacher.String()),
		logger.Int("count", count),
	)

	return &RosterResult{Activity: cmd.Activity, Email: cmd.Email, Count: count}, nil
}

// ActivityView is the public listing entry for one activity.
type ActivityView struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	CurrentCount    int      `json:"current_count"`
	Participants    []string `json:"participants"`
}

// ListActivities returns every activity with its roster. Public read, no
// authorization required.
func (s *Service) ListActivities(ctx context.Context) ([]ActivityView, error) {
	all, err := s.activities.List(ctx)
	if err != nil {
		return nil, s.wrapStoreErr("ListActivities", "activity listing failed", err)
	}

	views := make([]ActivityView, 0, len(all))
	for _, a := range all {
		participants := make([]string, 0, len(a.Participants))
		for _, p := range a.Participants {
			participants = append(participants, p.String())
		}
		views = append(views, ActivityView{
			Name:            a.Name.String(),
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			CurrentCount:    len(a.Participants),
			Participants:    participants,
		})
	}
	return views, nil
}

// wrapStoreErr passes domain error kinds through unmodified and tags
// everything else as a storage failure.
func (s *Service) wrapStoreErr(op, msg string, err error) error {
	if shared.IsNotFound(err) || shared.IsConflict(err) || shared.IsStoreUnavailable(err) {
		return err
	}
	return shared.WrapError(domain, op, shared.ErrStoreUnavailable, msg, err)
}

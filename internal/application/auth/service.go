// Package auth implements the session validator: teacher login, logout, and
// the authorization gate used by every teacher-only operation.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
	"github.com/mergington-hub/activities-hub/pkg/logger"
)

const domain = "auth"

// DefaultSessionTTL is how long a login stays valid without a fresh login.
const DefaultSessionTTL = 8 * time.Hour

// Config contains configuration for the service.
type Config struct {
	// SessionTTL is the session lifetime from login. A fresh login
	// replaces the session and restarts the clock.
	SessionTTL time.Duration
}

// Service authenticates teachers and validates their sessions. Sessions are
// keyed by username; validity is re-checked against the session store on
// every gated call, so no token value crosses the boundary beyond the
// username itself.
type Service struct {
	teachers teacher.Repository
	sessions teacher.SessionStore
	ttl      time.Duration
	log      *logger.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewService creates a new auth service.
func NewService(teachers teacher.Repository, sessions teacher.SessionStore, cfg Config, log *logger.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if log == nil {
		log = logger.Default()
	}

	return &Service{
		teachers: teachers,
		sessions: sessions,
		ttl:      cfg.SessionTTL,
		log:      log.With(logger.String("component", domain)),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// LoginResult confirms a successful login.
type LoginResult struct {
	Username    teacher.Username
	DisplayName string
	ExpiresAt   time.Time
}

// Login authenticates a credential pair and creates (or refreshes) the
// session for the username. Unknown usernames and secret mismatches are
// both reported as InvalidCredentials so login does not reveal which
// usernames exist.
func (s *Service) Login(ctx context.Context, username teacher.Username, secret string) (*LoginResult, error) {
	if !username.IsValid() || secret == "" {
		return nil, shared.NewDomainError(domain, "Login", shared.ErrInvalidCredentials, "username and password are required")
	}

	t, err := s.teachers.Get(ctx, username)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError(domain, "Login", shared.ErrInvalidCredentials, "invalid username or password")
		}
		return nil, shared.WrapError(domain, "Login", shared.ErrStoreUnavailable, "failed to load teacher", err)
	}

	if !t.CheckSecret(secret) {
		s.log.Warn("login rejected", logger.String("username", username.String()))
		return nil, shared.NewDomainError(domain, "Login", shared.ErrInvalidCredentials, "invalid username or password")
	}

	session, err := teacher.NewSession(username, s.now(), s.ttl)
	if err != nil {
		return nil, shared.WrapError(domain, "Login", shared.ErrValidation, "failed to create session", err)
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, shared.WrapError(domain, "Login", shared.ErrStoreUnavailable, "failed to store session", err)
	}

	s.log.Info("teacher logged in",
		logger.String("username", username.String()),
		logger.Time("expires_at", session.ExpiresAt),
	)

	return &LoginResult{
		Username:    t.Username,
		DisplayName: t.DisplayName,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// Logout invalidates the session for the username. Logging out without a
// session is not an error. Once Logout returns, CheckSession will not see
// the old session again.
func (s *Service) Logout(ctx context.Context, username teacher.Username) error {
	if !username.IsValid() {
		return shared.NewDomainError(domain, "Logout", shared.ErrEmptyValue, "username is required")
	}

	if err := s.sessions.Delete(ctx, username); err != nil {
		return shared.WrapError(domain, "Logout", shared.ErrStoreUnavailable, "failed to delete session", err)
	}

	s.log.Info("teacher logged out", logger.String("username", username.String()))
	return nil
}

// CheckSession reports whether the username has a valid active session.
// It returns NotFound only when the username has never logged in (there is
// no session record to check); an expired session yields false, nil.
func (s *Service) CheckSession(ctx context.Context, username teacher.Username) (bool, error) {
	if !username.IsValid() {
		return false, shared.NewDomainError(domain, "CheckSession", shared.ErrEmptyValue, "username is required")
	}

	session, err := s.sessions.Get(ctx, username)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, shared.NewDomainError(domain, "CheckSession", shared.ErrNotFound, "no session for username")
		}
		return false, shared.WrapError(domain, "CheckSession", shared.ErrStoreUnavailable, "failed to load session", err)
	}

	return session.IsValid(s.now()), nil
}

// RequireTeacher is the authorization gate for teacher-only operations.
// It fails with Unauthorized unless the username has a valid active session.
func (s *Service) RequireTeacher(ctx context.Context, username teacher.Username) error {
	if !username.IsValid() {
		return shared.NewDomainError(domain, "RequireTeacher", shared.ErrUnauthorized, "authentication required")
	}

	valid, err := s.CheckSession(ctx, username)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDomainError(domain, "RequireTeacher", shared.ErrUnauthorized, "no active session")
		}
		var derr *shared.DomainError
		if errors.As(err, &derr) && shared.IsStoreUnavailable(derr) {
			// A store outage must not authorize anyone: fail closed,
			// but keep the storage error kind for the caller.
			return err
		}
		return shared.WrapError(domain, "RequireTeacher", shared.ErrUnauthorized, "session check failed", err)
	}
	if !valid {
		return shared.NewDomainError(domain, "RequireTeacher", shared.ErrUnauthorized, "session expired")
	}

	return nil
}

// WithNow replaces the clock. Intended for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

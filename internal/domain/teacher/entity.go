// Package teacher contains domain entities for teacher accounts and their
// login sessions. This is a pure domain layer with zero external dependencies.
package teacher

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"
)

// Domain errors for teacher package.
var (
	ErrInvalidUsername = errors.New("teacher: username cannot be empty")
	ErrInvalidSecret   = errors.New("teacher: secret cannot be empty")
	ErrInvalidTTL      = errors.New("teacher: session TTL must be positive")
)

// Username identifies a teacher. Usernames are unique and assigned at
// seed time; there is no self-service registration.
type Username string

// IsValid checks if the username is valid.
func (u Username) IsValid() bool {
	return strings.TrimSpace(string(u)) != ""
}

// String returns the string representation of Username.
func (u Username) String() string {
	return string(u)
}

// Teacher is a seeded, read-only account record. The credential secret is
// an opaque string compared verbatim against the login input.
type Teacher struct {
	Username    Username
	Secret      string
	DisplayName string
}

// CheckSecret compares the login input against the stored secret in
// constant time.
func (t *Teacher) CheckSecret(input string) bool {
	return subtle.ConstantTimeCompare([]byte(t.Secret), []byte(input)) == 1
}

// Session is proof that a teacher has authenticated. Sessions are keyed by
// username: a fresh login replaces any prior session for that teacher.
type Session struct {
	Username  Username
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession creates a session valid for the given TTL from now.
func NewSession(username Username, now time.Time, ttl time.Duration) (*Session, error) {
	if !username.IsValid() {
		return nil, ErrInvalidUsername
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	return &Session{
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsValid reports whether the session is still active at the given time.
func (s *Session) IsValid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// TTLRemaining returns how long the session stays valid from the given
// time, or zero if it has expired.
func (s *Session) TTLRemaining(now time.Time) time.Duration {
	if remaining := s.ExpiresAt.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

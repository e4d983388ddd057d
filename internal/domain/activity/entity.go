// Package activity contains domain entities and business logic for
// extracurricular activities and their participant rosters.
// This is a pure domain layer with zero external dependencies.
package activity

import (
	"errors"
	"strings"

	"github.com/mergington-hub/activities-hub/internal/domain/shared"
)

// Domain errors for activity package.
var (
	ErrInvalidName        = errors.New("activity: name cannot be empty")
	ErrInvalidEmail       = errors.New("activity: student email cannot be empty")
	ErrInvalidCapacity    = errors.New("activity: max participants must be positive")
	ErrRosterOverCapacity = errors.New("activity: roster exceeds max participants")
)

// Name identifies an activity. Names are the natural key: unique and
// case-sensitive, assigned at seed time and never changed.
type Name string

// IsValid checks if the activity name is valid.
func (n Name) IsValid() bool {
	return strings.TrimSpace(string(n)) != ""
}

// String returns the string representation of Name.
func (n Name) String() string {
	return string(n)
}

// StudentEmail identifies a participant. Students are not stored as
// standalone records here; the email is a foreign reference.
type StudentEmail string

// IsValid checks if the student email is valid.
func (e StudentEmail) IsValid() bool {
	return strings.TrimSpace(string(e)) != ""
}

// String returns the string representation of StudentEmail.
func (e StudentEmail) String() string {
	return string(e)
}

// Activity is the aggregate root for one extracurricular offering.
// The participant roster is an ordered set of student emails; the invariant
// len(Participants) <= MaxParticipants holds at all times.
type Activity struct {
	Name            Name
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []StudentEmail
}

// New creates a new activity with an empty roster.
func New(name Name, description, schedule string, maxParticipants int) (*Activity, error) {
	if !name.IsValid() {
		return nil, ErrInvalidName
	}
	if maxParticipants <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Activity{
		Name:            name,
		Description:     description,
		Schedule:        schedule,
		MaxParticipants: maxParticipants,
		Participants:    make([]StudentEmail, 0),
	}, nil
}

// Validate checks the aggregate's invariants. Used when loading rosters
// from seed data or storage.
func (a *Activity) Validate() error {
	if !a.Name.IsValid() {
		return ErrInvalidName
	}
	if a.MaxParticipants <= 0 {
		return ErrInvalidCapacity
	}
	if len(a.Participants) > a.MaxParticipants {
		return ErrRosterOverCapacity
	}
	seen := make(map[StudentEmail]struct{}, len(a.Participants))
	for _, email := range a.Participants {
		if !email.IsValid() {
			return ErrInvalidEmail
		}
		if _, dup := seen[email]; dup {
			return shared.ErrAlreadyRegistered
		}
		seen[email] = struct{}{}
	}
	return nil
}

// HasParticipant reports whether the student is on the roster.
func (a *Activity) HasParticipant(email StudentEmail) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// IsFull reports whether the roster has reached capacity.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// SpotsLeft returns the number of open spots.
func (a *Activity) SpotsLeft() int {
	if left := a.MaxParticipants - len(a.Participants); left > 0 {
		return left
	}
	return 0
}

// SignUp adds a student to the roster. Membership and capacity are checked
// in that order: a duplicate signup to a full activity reports the duplicate,
// not the capacity.
func (a *Activity) SignUp(email StudentEmail) error {
	if !email.IsValid() {
		return ErrInvalidEmail
	}
	if a.HasParticipant(email) {
		return shared.ErrAlreadyRegistered
	}
	if a.IsFull() {
		return shared.ErrCapacityExceeded
	}

	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes a student from the roster. Absence is a reported
// error, not a no-op.
func (a *Activity) Unregister(email StudentEmail) error {
	if !email.IsValid() {
		return ErrInvalidEmail
	}
	for i, p := range a.Participants {
		if p == email {
			a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotRegistered
}

// Clone returns a deep copy of the activity. Store adapters hand out clones
// so callers cannot mutate shared state behind the adapter's back.
func (a *Activity) Clone() *Activity {
	clone := *a
	clone.Participants = make([]StudentEmail, len(a.Participants))
	copy(clone.Participants, a.Participants)
	return &clone
}

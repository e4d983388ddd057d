// Package announcement contains domain entities for school announcements
// and their display lifecycle. This is a pure domain layer with zero
// external dependencies.
package announcement

import (
	"errors"
	"strings"
	"time"

	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
)

// Text length limits, matching what the front page can display.
const (
	MinTitleLen = 2
	MaxTitleLen = 80
	MinBodyLen  = 2
	MaxBodyLen  = 300
)

// Domain errors for announcement package.
var (
	ErrInvalidID     = errors.New("announcement: invalid ID")
	ErrInvalidTitle  = errors.New("announcement: title must be 2-80 characters")
	ErrInvalidBody   = errors.New("announcement: body must be 2-300 characters")
	ErrInvalidWindow = errors.New("announcement: end of window cannot be before start")
	ErrInvalidAuthor = errors.New("announcement: author is required")
)

// ID identifies an announcement. IDs are generated by the announcement
// service, unique, and immutable once assigned.
type ID string

// IsValid checks if the ID is valid.
func (id ID) IsValid() bool {
	return id != ""
}

// String returns the string representation of ID.
func (id ID) String() string {
	return string(id)
}

// Announcement is one school-wide notice. It is publicly visible while
// Active is set and the optional display window contains the current time.
type Announcement struct {
	ID     ID
	Title  string
	Body   string
	Author teacher.Username

	// Active is the teacher-controlled display switch.
	Active bool

	// StartAt and EndAt bound the display window. Either may be nil,
	// meaning unbounded on that side.
	StartAt *time.Time
	EndAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates an announcement that is active by default.
func New(id ID, author teacher.Username, title, body string, startAt, endAt *time.Time, now time.Time) (*Announcement, error) {
	if !id.IsValid() {
		return nil, ErrInvalidID
	}
	if !author.IsValid() {
		return nil, ErrInvalidAuthor
	}

	a := &Announcement{
		ID:        id,
		Author:    author,
		Title:     strings.TrimSpace(title),
		Body:      strings.TrimSpace(body),
		Active:    true,
		StartAt:   startAt,
		EndAt:     endAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the announcement's invariants.
func (a *Announcement) Validate() error {
	if !a.ID.IsValid() {
		return ErrInvalidID
	}
	if !a.Author.IsValid() {
		return ErrInvalidAuthor
	}
	if n := len(a.Title); n < MinTitleLen || n > MaxTitleLen {
		return ErrInvalidTitle
	}
	if n := len(a.Body); n < MinBodyLen || n > MaxBodyLen {
		return ErrInvalidBody
	}
	if a.StartAt != nil && a.EndAt != nil && a.EndAt.Before(*a.StartAt) {
		return ErrInvalidWindow
	}
	return nil
}

// IsVisible reports whether the announcement is eligible for public display
// at the given time: the active switch is on, the window has started (or has
// no start), and the window has not ended (or has no end).
func (a *Announcement) IsVisible(now time.Time) bool {
	if !a.Active {
		return false
	}
	if a.StartAt != nil && now.Before(*a.StartAt) {
		return false
	}
	if a.EndAt != nil && now.After(*a.EndAt) {
		return false
	}
	return true
}

// Update describes a partial update. Nil fields are left unchanged.
type Update struct {
	Title   *string
	Body    *string
	Active  *bool
	StartAt *time.Time
	EndAt   *time.Time
}

// Apply applies the update, refreshes UpdatedAt, and re-validates.
// The ID, author, and creation timestamp are immutable.
func (a *Announcement) Apply(u Update, now time.Time) error {
	next := *a
	if u.Title != nil {
		next.Title = strings.TrimSpace(*u.Title)
	}
	if u.Body != nil {
		next.Body = strings.TrimSpace(*u.Body)
	}
	if u.Active != nil {
		next.Active = *u.Active
	}
	if u.StartAt != nil {
		next.StartAt = u.StartAt
	}
	if u.EndAt != nil {
		next.EndAt = u.EndAt
	}
	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = now
	*a = next
	return nil
}

// Clone returns a copy of the announcement with its own window pointers.
func (a *Announcement) Clone() *Announcement {
	clone := *a
	if a.StartAt != nil {
		start := *a.StartAt
		clone.StartAt = &start
	}
	if a.EndAt != nil {
		end := *a.EndAt
		clone.EndAt = &end
	}
	return &clone
}

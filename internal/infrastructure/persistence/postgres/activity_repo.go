package postgres

import (
	"context"

	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
)

const activityDomain = "activity_store"

// ActivityRepository implements activity.Repository using PostgreSQL.
// Rosters are stored as a text[] column; the conditional UPDATE statements
// below make membership/capacity checks and the write one atomic statement,
// backed by the roster_within_capacity table constraint.
type ActivityRepository struct {
	conn *Connection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(conn *Connection) *ActivityRepository {
	return &ActivityRepository{conn: conn}
}

// Get returns the activity with the given name.
func (r *ActivityRepository) Get(ctx context.Context, name activity.Name) (*activity.Activity, error) {
	query := `
		SELECT name, description, schedule, max_participants, participants
		FROM activities
		WHERE name = $1
	`

	a, err := r.scanActivity(ctx, query, []any{name.String()})
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NewDomainError(activityDomain, "Get", shared.ErrNotFound, "activity not found")
		}
		return nil, storeErr(activityDomain, "Get", err)
	}
	return a, nil
}

// List returns every activity, ordered by name.
func (r *ActivityRepository) List(ctx context.Context) ([]*activity.Activity, error) {
	query := `
		SELECT name, description, schedule, max_participants, participants
		FROM activities
		ORDER BY name
	`

	rows, cancel, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, storeErr(activityDomain, "List", err)
	}
	defer cancel()
	defer rows.Close()

	var all []*activity.Activity
	for rows.Next() {
		var (
			a            activity.Activity
			name         string
			participants []string
		)
		if err := rows.Scan(&name, &a.Description, &a.Schedule, &a.MaxParticipants, &participants); err != nil {
			return nil, storeErr(activityDomain, "List", err)
		}
		a.Name = activity.Name(name)
		a.Participants = toEmails(participants)
		all = append(all, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(activityDomain, "List", err)
	}
	return all, nil
}

// Save upserts an activity record. Seeding never clobbers an existing
// roster: on conflict only the descriptive fields are refreshed.
func (r *ActivityRepository) Save(ctx context.Context, a *activity.Activity) error {
	query := `
		INSERT INTO activities (name, description, schedule, max_participants, participants)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			schedule = EXCLUDED.schedule,
			max_participants = EXCLUDED.max_participants
	`

	_, err := r.conn.Exec(ctx, query,
		a.Name.String(),
		a.Description,
		a.Schedule,
		a.MaxParticipants,
		fromEmails(a.Participants),
	)
	if err != nil {
		if IsCheckViolation(err) {
			return shared.WrapError(activityDomain, "Save", shared.ErrValidation, "activity violates roster constraints", err)
		}
		return storeErr(activityDomain, "Save", err)
	}
	return nil
}

// rosterRetries bounds the diagnose-and-retry loop for the conditional
// roster updates under concurrent modification.
const rosterRetries = 3

// AddParticipant appends the student in one conditional UPDATE: the row is
// touched only if the student is absent and the roster has room, so two
// concurrent signups can never jointly exceed max_participants. On zero
// rows the cause is diagnosed with a follow-up read; when the re-read shows
// neither cause, the roster changed underneath the statement and the
// attempt is retried.
func (r *ActivityRepository) AddParticipant(ctx context.Context, name activity.Name, email activity.StudentEmail) (int, error) {
	query := `
		UPDATE activities
		SET participants = array_append(participants, $2)
		WHERE name = $1
		  AND NOT ($2 = ANY(participants))
		  AND cardinality(participants) < max_participants
		RETURNING cardinality(participants)
	`

	for attempt := 0; attempt < rosterRetries; attempt++ {
		var count int
		err := r.conn.QueryRowScan(ctx, query, []any{name.String(), email.String()}, &count)
		if err == nil {
			return count, nil
		}
		if !IsNoRows(err) {
			return 0, storeErr(activityDomain, "AddParticipant", err)
		}

		a, err := r.Get(ctx, name)
		if err != nil {
			return 0, err
		}
		if cause := diagnoseSignUp(a, email); cause != nil {
			return 0, cause
		}
	}
	return 0, shared.NewDomainError(activityDomain, "AddParticipant", shared.ErrStoreUnavailable, "roster contended, retry")
}

// RemoveParticipant removes the student in one conditional UPDATE; absence
// is diagnosed with a follow-up read and reported, not ignored.
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, name activity.Name, email activity.StudentEmail) (int, error) {
	query := `
		UPDATE activities
		SET participants = array_remove(participants, $2)
		WHERE name = $1
		  AND $2 = ANY(participants)
		RETURNING cardinality(participants)
	`

	for attempt := 0; attempt < rosterRetries; attempt++ {
		var count int
		err := r.conn.QueryRowScan(ctx, query, []any{name.String(), email.String()}, &count)
		if err == nil {
			return count, nil
		}
		if !IsNoRows(err) {
			return 0, storeErr(activityDomain, "RemoveParticipant", err)
		}

		a, err := r.Get(ctx, name)
		if err != nil {
			return 0, err
		}
		if cause := diagnoseUnregister(a, email); cause != nil {
			return 0, cause
		}
	}
	return 0, shared.NewDomainError(activityDomain, "RemoveParticipant", shared.ErrStoreUnavailable, "roster contended, retry")
}

// diagnoseSignUp names the check that rejected a signup whose conditional
// UPDATE matched no row. Nil means the snapshot shows neither cause: a
// concurrent change landed between the statement and the read.
func diagnoseSignUp(a *activity.Activity, email activity.StudentEmail) error {
	if a.HasParticipant(email) {
		return shared.NewDomainError(activityDomain, "AddParticipant", shared.ErrAlreadyRegistered, "student already registered")
	}
	if a.IsFull() {
		return shared.NewDomainError(activityDomain, "AddParticipant", shared.ErrCapacityExceeded, "activity is at capacity")
	}
	return nil
}

// diagnoseUnregister is the removal counterpart: a member seen at re-read
// means a concurrent signup raced the statement, so retry.
func diagnoseUnregister(a *activity.Activity, email activity.StudentEmail) error {
	if !a.HasParticipant(email) {
		return shared.NewDomainError(activityDomain, "RemoveParticipant", shared.ErrNotRegistered, "student not registered")
	}
	return nil
}

// scanActivity runs a single-row activity query.
func (r *ActivityRepository) scanActivity(ctx context.Context, query string, args []any) (*activity.Activity, error) {
	var (
		a            activity.Activity
		name         string
		participants []string
	)
	err := r.conn.QueryRowScan(ctx, query, args,
		&name, &a.Description, &a.Schedule, &a.MaxParticipants, &participants)
	if err != nil {
		return nil, err
	}
	a.Name = activity.Name(name)
	a.Participants = toEmails(participants)
	return &a, nil
}

func toEmails(raw []string) []activity.StudentEmail {
	emails := make([]activity.StudentEmail, 0, len(raw))
	for _, s := range raw {
		emails = append(emails, activity.StudentEmail(s))
	}
	return emails
}

func fromEmails(emails []activity.StudentEmail) []string {
	raw := make([]string, 0, len(emails))
	for _, e := range emails {
		raw = append(raw, e.String())
	}
	return raw
}

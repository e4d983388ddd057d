package postgres

import (
	"context"

	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
)

const teacherDomain = "teacher_store"

// TeacherRepository implements teacher.Repository using PostgreSQL.
type TeacherRepository struct {
	conn *Connection
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(conn *Connection) *TeacherRepository {
	return &TeacherRepository{conn: conn}
}

// Get returns the teacher with the given username.
func (r *TeacherRepository) Get(ctx context.Context, username teacher.Username) (*teacher.Teacher, error) {
	query := `
		SELECT username, secret, display_name
		FROM teachers
		WHERE username = $1
	`

	var (
		t   teacher.Teacher
		raw string
	)
	err := r.conn.QueryRowScan(ctx, query, []any{username.String()}, &raw, &t.Secret, &t.DisplayName)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NewDomainError(teacherDomain, "Get", shared.ErrNotFound, "teacher not found")
		}
		return nil, storeErr(teacherDomain, "Get", err)
	}
	t.Username = teacher.Username(raw)
	return &t, nil
}

// List returns every teacher, ordered by username.
func (r *TeacherRepository) List(ctx context.Context) ([]*teacher.Teacher, error) {
	query := `
		SELECT username, secret, display_name
		FROM teachers
		ORDER BY username
	`

	rows, cancel, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, storeErr(teacherDomain, "List", err)
	}
	defer cancel()
	defer rows.Close()

	var all []*teacher.Teacher
	for rows.Next() {
		var (
			t   teacher.Teacher
			raw string
		)
		if err := rows.Scan(&raw, &t.Secret, &t.DisplayName); err != nil {
			return nil, storeErr(teacherDomain, "List", err)
		}
		t.Username = teacher.Username(raw)
		all = append(all, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(teacherDomain, "List", err)
	}
	return all, nil
}

// Save upserts a teacher record. Used by seeding only.
func (r *TeacherRepository) Save(ctx context.Context, t *teacher.Teacher) error {
	query := `
		INSERT INTO teachers (username, secret, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET
			secret = EXCLUDED.secret,
			display_name = EXCLUDED.display_name
	`

	_, err := r.conn.Exec(ctx, query, t.Username.String(), t.Secret, t.DisplayName)
	if err != nil {
		return storeErr(teacherDomain, "Save", err)
	}
	return nil
}

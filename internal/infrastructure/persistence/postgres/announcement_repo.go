package postgres

import (
	"context"

	"github.com/mergington-hub/activities-hub/internal/domain/announcement"
	"github.com/mergington-hub/activities-hub/internal/domain/shared"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
)

const announcementDomain = "announcement_store"

// AnnouncementRepository implements announcement.Repository using PostgreSQL.
type AnnouncementRepository struct {
	conn *Connection
}

// NewAnnouncementRepository creates a new AnnouncementRepository.
func NewAnnouncementRepository(conn *Connection) *AnnouncementRepository {
	return &AnnouncementRepository{conn: conn}
}

// Get returns the announcement with the given ID.
func (r *AnnouncementRepository) Get(ctx context.Context, id announcement.ID) (*announcement.Announcement, error) {
	query := `
		SELECT id, title, body, author, active, start_at, end_at, created_at, updated_at
		FROM announcements
		WHERE id = $1
	`

	var (
		a      announcement.Announcement
		rawID  string
		author string
	)
	err := r.conn.QueryRowScan(ctx, query, []any{id.String()},
		&rawID, &a.Title, &a.Body, &author, &a.Active,
		&a.StartAt, &a.EndAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NewDomainError(announcementDomain, "Get", shared.ErrNotFound, "announcement not found")
		}
		return nil, storeErr(announcementDomain, "Get", err)
	}
	a.ID = announcement.ID(rawID)
	a.Author = teacher.Username(author)
	return &a, nil
}

// List returns every announcement, most recently updated first.
func (r *AnnouncementRepository) List(ctx context.Context) ([]*announcement.Announcement, error) {
	query := `
		SELECT id, title, body, author, active, start_at, end_at, created_at, updated_at
		FROM announcements
		ORDER BY updated_at DESC
	`

	rows, cancel, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, storeErr(announcementDomain, "List", err)
	}
	defer cancel()
	defer rows.Close()

	var all []*announcement.Announcement
	for rows.Next() {
		var (
			a      announcement.Announcement
			rawID  string
			author string
		)
		if err := rows.Scan(&rawID, &a.Title, &a.Body, &author, &a.Active,
			&a.StartAt, &a.EndAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, storeErr(announcementDomain, "List", err)
		}
		a.ID = announcement.ID(rawID)
		a.Author = teacher.Username(author)
		all = append(all, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(announcementDomain, "List", err)
	}
	return all, nil
}

// Save upserts an announcement record.
func (r *AnnouncementRepository) Save(ctx context.Context, a *announcement.Announcement) error {
	query := `
		INSERT INTO announcements (id, title, body, author, active, start_at, end_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			active = EXCLUDED.active,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		a.ID.String(),
		a.Title,
		a.Body,
		a.Author.String(),
		a.Active,
		a.StartAt,
		a.EndAt,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return storeErr(announcementDomain, "Save", err)
	}
	return nil
}

// Delete removes an announcement permanently.
func (r *AnnouncementRepository) Delete(ctx context.Context, id announcement.ID) error {
	query := `DELETE FROM announcements WHERE id = $1`

	tag, err := r.conn.Exec(ctx, query, id.String())
	if err != nil {
		return storeErr(announcementDomain, "Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NewDomainError(announcementDomain, "Delete", shared.ErrNotFound, "announcement not found")
	}
	return nil
}

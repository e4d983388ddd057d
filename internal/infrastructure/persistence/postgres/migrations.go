package postgres

import (
	"context"
	"fmt"
	"time"
)

const migration001Up = `
-- Migration: Create core tables
-- Version: 001

CREATE TABLE IF NOT EXISTS activities (
    name TEXT PRIMARY KEY,
    description TEXT NOT NULL DEFAULT '',
    schedule TEXT NOT NULL DEFAULT '',
    max_participants INTEGER NOT NULL,
    participants TEXT[] NOT NULL DEFAULT '{}',

    CONSTRAINT positive_capacity CHECK (max_participants > 0),
    CONSTRAINT roster_within_capacity CHECK (cardinality(participants) <= max_participants)
);

CREATE TABLE IF NOT EXISTS teachers (
    username TEXT PRIMARY KEY,
    secret TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS announcements (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    author TEXT NOT NULL REFERENCES teachers(username),
    active BOOLEAN NOT NULL DEFAULT TRUE,
    start_at TIMESTAMP WITH TIME ZONE,
    end_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_announcements_created_at ON announcements(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_announcements_updated_at ON announcements(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_announcements_active ON announcements(active) WHERE active;
`

const migration001Down = `
DROP TABLE IF EXISTS announcements;
DROP TABLE IF EXISTS teachers;
DROP TABLE IF EXISTS activities;
`

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_core_tables",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
	}
}

// Migrator applies embedded migrations, tracking them in a version table.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a new migrator with embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// Migrate applies all pending migrations.
func (m *Migrator) Migrate(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)
	if _, err := m.conn.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("%w: creating migrations table: %v", ErrMigrationFailed, err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, isApplied := applied[mig.Version]; isApplied {
			continue
		}

		if _, err := m.conn.Exec(ctx, mig.UpSQL); err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}

		record := fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", m.tableName)
		if _, err := m.conn.Exec(ctx, record, mig.Version, mig.Name); err != nil {
			return fmt.Errorf("%w: recording version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}

	return nil
}

// appliedVersions returns the versions already applied.
func (m *Migrator) appliedVersions(ctx context.Context) (map[int]time.Time, error) {
	query := fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName)

	rows, cancel, err := m.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying applied migrations: %v", ErrMigrationFailed, err)
	}
	defer cancel()
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning migration row: %v", ErrMigrationFailed, err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}

// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

import (
	"context"
	"fmt"
	"time"
)

// Migration is a versioned, append-only schema change, grounded on the
// teacher's internal/database/migrations.go. The Scheduling Store ships
// with its full schema in the initial CREATE TABLE set (schema.go); this
// infrastructure exists for the schema changes that follow a first release.
type Migration struct {
	Version     int
	Name        string
	Description string
	SQL         string
	AppliedAt   time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// getMigrations returns all versioned migrations in order. Empty today;
// the table schema is fully captured in schema.go's initial CREATE TABLE
// statements. Future schema changes are appended here starting at version 1
// and must never be edited or removed once applied by a running deployment.
func getMigrations() []Migration {
	return []Migration{}
}

// runMigrations ensures the tracking table exists and applies any migration
// not yet recorded there.
func (s *SchedulingStore) runMigrations(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return err
	}
	closeQuietly(rows)

	for _, m := range getMigrations() {
		if applied[m.Version] {
			continue
		}
		if _, err := s.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to apply migration v%d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := s.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES (?, ?, ?)`,
			m.Version, m.Name, m.Description); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}
	}
	return nil
}

// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/wallreel/scheduler/internal/config"
	"github.com/wallreel/scheduler/internal/logging"
)

// SchedulingStore is the read/write source of truth for displays,
// playlists, blocks, timeline entries, history and commands (spec.md §3,
// Component C2). Grounded on the teacher's internal/database/database.go
// connection-construction and checkpoint-before-close discipline.
type SchedulingStore struct {
	conn *sql.DB
}

// NewSchedulingStore opens (creating if absent) the Scheduling Store
// database, applies the schema and any pending migrations, and returns a
// ready-to-use store.
func NewSchedulingStore(cfg config.SchedulingStoreConfig) (*SchedulingStore, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "2GB"
	}

	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create scheduling store directory %s: %w", dir, err)
		}
	}

	connStr := fmt.Sprintf(
		"%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=true&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, threads, maxMemory,
	)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open scheduling store: %w", err)
	}

	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	s := &SchedulingStore{conn: conn}

	if err := s.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize scheduling store: %w", err)
	}

	return s, nil
}

// initialize creates tables, runs migrations, builds indexes, then forces a
// checkpoint so a fresh WAL never has to replay schema DDL on next startup
// (the same DuckDB WAL-replay hazard the teacher's database.go works around).
func (s *SchedulingStore) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := s.conn.ExecContext(ctx, createTablesSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := s.runMigrations(ctx); err != nil {
		return err
	}

	if _, err := s.conn.ExecContext(ctx, createIndexesSQL); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	checkpointCtx, checkpointCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer checkpointCancel()
	if _, err := s.conn.ExecContext(checkpointCtx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("failed to checkpoint scheduling store after schema initialization")
	}

	return nil
}

// Conn returns the underlying SQL connection for callers that run their own
// statements against the scheduling database; the Timeline Engine does not
// use it and goes through the store's CRUD methods.
func (s *SchedulingStore) Conn() *sql.DB {
	return s.conn
}

// Close checkpoints the WAL and closes the underlying connection.
func (s *SchedulingStore) Close() error {
	if s.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("failed to checkpoint scheduling store before close")
	}
	return s.conn.Close()
}

// Ping verifies connectivity.
func (s *SchedulingStore) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("scheduling store connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wallreel/scheduler/internal/models"
)

const commandColumns = `command_id, display_id, type, payload, enqueued_at`

func scanCommand(row interface {
	Scan(dest ...interface{}) error
}) (*models.Command, error) {
	var c models.Command
	var cmdType string
	err := row.Scan(&c.CommandID, &c.DisplayID, &cmdType, &c.Payload, &c.EnqueuedAt)
	if err != nil {
		return nil, err
	}
	c.Type = models.CommandType(cmdType)
	return &c, nil
}

// EnqueueCommand appends a command to a display's FIFO queue (spec.md §4.5
// Command Queue: "Append/drain pending operator commands").
func (s *SchedulingStore) EnqueueCommand(ctx context.Context, displayID string, cmdType models.CommandType, payload *string) (*models.Command, error) {
	commandID := uuid.New().String()
	now := time.Now()
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO commands (command_id, display_id, type, payload, enqueued_at)
		VALUES (?, ?, ?, ?, ?)`,
		commandID, displayID, string(cmdType), payload, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue command: %w", err)
	}
	return &models.Command{CommandID: commandID, DisplayID: displayID, Type: cmdType, Payload: payload, EnqueuedAt: now}, nil
}

// DrainCommands atomically returns and deletes every pending command for a
// display, FIFO by enqueued_at, giving at-least-once delivery: a command is
// only removed once the drain that returned it has committed (spec.md §4.5,
// §3 Command Envelope lifecycle "drained once by a poll").
func (s *SchedulingStore) DrainCommands(ctx context.Context, displayID string) ([]models.Command, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin drain transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`SELECT %s FROM commands WHERE display_id = ? ORDER BY enqueued_at ASC`, commandColumns)
	rows, err := tx.QueryContext(ctx, query, displayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending commands: %w", err)
	}

	commands := make([]models.Command, 0)
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		commands = append(commands, *c)
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, err
	}
	closeQuietly(rows)

	if len(commands) == 0 {
		return commands, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM commands WHERE display_id = ?`, displayID); err != nil {
		return nil, fmt.Errorf("failed to delete drained commands: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit drain transaction: %w", err)
	}
	return commands, nil
}

// PreviewCommands returns the pending commands for a display without
// draining them, backing GET /displays/{display_id}/commands so an operator
// can inspect queue depth without consuming the at-least-once delivery that
// belongs to the display itself.
func (s *SchedulingStore) PreviewCommands(ctx context.Context, displayID string) ([]models.Command, error) {
	query := fmt.Sprintf(`SELECT %s FROM commands WHERE display_id = ? ORDER BY enqueued_at ASC`, commandColumns)
	rows, err := s.conn.QueryContext(ctx, query, displayID)
	if err != nil {
		return nil, fmt.Errorf("failed to preview commands: %w", err)
	}
	defer closeQuietly(rows)

	commands := make([]models.Command, 0)
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		commands = append(commands, *c)
	}
	return commands, rows.Err()
}

// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wallreel/scheduler/internal/models"
)

// Display errors.
var (
	ErrDisplayNotFound = errors.New("display not found")
)

const displayColumns = `display_id, name, created_at, last_ping, liveness,
	current_video_id, current_playlist_id, timeline_position, last_state_change, current_position`

func scanDisplay(row interface {
	Scan(dest ...interface{}) error
}) (*models.Display, error) {
	var d models.Display
	var liveness string
	err := row.Scan(&d.DisplayID, &d.Name, &d.CreatedAt, &d.LastPing, &liveness,
		&d.CurrentVideoID, &d.CurrentPlaylistID, &d.TimelinePosition, &d.LastStateChange, &d.CurrentPosition)
	if err == sql.ErrNoRows {
		return nil, ErrDisplayNotFound
	}
	if err != nil {
		return nil, err
	}
	d.Liveness = models.Liveness(liveness)
	return &d, nil
}

// CreateDisplay inserts a newly paired display, keyed by a displaycode-
// generated 6-char id (spec.md §3 "Lifecycle: created on operator action").
func (s *SchedulingStore) CreateDisplay(ctx context.Context, displayID, name string) (*models.Display, error) {
	now := time.Now()
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO displays (display_id, name, created_at, liveness, timeline_position, last_state_change)
		VALUES (?, ?, ?, ?, 0, ?)`,
		displayID, name, now, models.LivenessOffline, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("display id %s already exists: %w", displayID, err)
		}
		return nil, fmt.Errorf("failed to create display: %w", err)
	}
	return s.GetDisplay(ctx, displayID)
}

// DisplayExists supports displaycode.GenerateUnique's collision check.
func (s *SchedulingStore) DisplayExists(ctx context.Context, displayID string) (bool, error) {
	var exists bool
	err := s.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM displays WHERE display_id = ?)`, displayID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check display existence: %w", err)
	}
	return exists, nil
}

// GetDisplay retrieves a display by id.
func (s *SchedulingStore) GetDisplay(ctx context.Context, displayID string) (*models.Display, error) {
	query := fmt.Sprintf(`SELECT %s FROM displays WHERE display_id = ?`, displayColumns)
	return scanDisplay(s.conn.QueryRowContext(ctx, query, displayID))
}

// ListDisplays returns every registered display, newest first.
func (s *SchedulingStore) ListDisplays(ctx context.Context) ([]models.Display, error) {
	query := fmt.Sprintf(`SELECT %s FROM displays ORDER BY created_at DESC`, displayColumns)
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list displays: %w", err)
	}
	defer closeQuietly(rows)

	displays := make([]models.Display, 0)
	for rows.Next() {
		d, err := scanDisplay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan display: %w", err)
		}
		displays = append(displays, *d)
	}
	return displays, rows.Err()
}

// DeleteDisplay removes a display and cascades to its Playlists, Blocks,
// Timeline Entries and Commands (spec.md §3 "Ownership"); History Entries
// are retained per the same section's "may be retained optionally".
func (s *SchedulingStore) DeleteDisplay(ctx context.Context, displayID string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM commands WHERE display_id = ?`, displayID); err != nil {
		return fmt.Errorf("failed to delete commands: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM timeline_videos WHERE display_id = ?`, displayID); err != nil {
		return fmt.Errorf("failed to delete timeline entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_blocks WHERE playlist_id IN
		(SELECT playlist_id FROM playlists WHERE display_id = ?)`, displayID); err != nil {
		return fmt.Errorf("failed to delete playlist blocks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE display_id = ?`, displayID); err != nil {
		return fmt.Errorf("failed to delete playlists: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM displays WHERE display_id = ?`, displayID)
	if err != nil {
		return fmt.Errorf("failed to delete display: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDisplayNotFound
	}

	return tx.Commit()
}

// UpdateDisplayLiveness records a poll: liveness, last_ping and, when the
// reported state changed, last_state_change (spec.md §4.4).
func (s *SchedulingStore) UpdateDisplayLiveness(ctx context.Context, displayID string, liveness models.Liveness, position float64) error {
	now := time.Now()
	result, err := s.conn.ExecContext(ctx, `
		UPDATE displays SET
			last_ping = ?,
			current_position = ?,
			last_state_change = CASE WHEN liveness != ? THEN ? ELSE last_state_change END,
			liveness = ?
		WHERE display_id = ?`,
		now, position, string(liveness), now, string(liveness), displayID,
	)
	if err != nil {
		return fmt.Errorf("failed to update display liveness: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDisplayNotFound
	}
	return nil
}

// SetDisplayActivePlaylist sets current_playlist_id and resets
// timeline_position to 0, the display-side half of activate_playlist
// (spec.md §4.2).
func (s *SchedulingStore) SetDisplayActivePlaylist(ctx context.Context, displayID, playlistID string) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE displays SET current_playlist_id = ?, timeline_position = 0 WHERE display_id = ?`,
		playlistID, displayID,
	)
	if err != nil {
		return fmt.Errorf("failed to set active playlist: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDisplayNotFound
	}
	return nil
}

// ClearDisplayActivePlaylist clears current_playlist_id and resets
// timeline_position to 0, used when the display's active playlist is
// deleted out from under it. The
// playlistID guard ensures a concurrent activation of a different
// playlist is never clobbered by a stale delete.
func (s *SchedulingStore) ClearDisplayActivePlaylist(ctx context.Context, displayID, playlistID string) error {
	_, err := s.conn.ExecContext(ctx,
		`UPDATE displays SET current_playlist_id = NULL, timeline_position = 0, current_video_id = NULL
			WHERE display_id = ? AND current_playlist_id = ?`,
		displayID, playlistID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear display active playlist: %w", err)
	}
	return nil
}

// ResetDisplayTimelinePosition resets timeline_position and
// current_video_id to start a freshly populated loop, without touching
// current_playlist_id (spec.md §4.3.4 rollover step 4).
func (s *SchedulingStore) ResetDisplayTimelinePosition(ctx context.Context, displayID string) error {
	_, err := s.conn.ExecContext(ctx,
		`UPDATE displays SET timeline_position = 0, current_video_id = NULL WHERE display_id = ?`,
		displayID,
	)
	if err != nil {
		return fmt.Errorf("failed to reset display timeline position: %w", err)
	}
	return nil
}

// AdvanceDisplayPosition sets timeline_position and the currently-playing
// video after a successful mark-played (spec.md §4.3).
func (s *SchedulingStore) AdvanceDisplayPosition(ctx context.Context, displayID string, timelinePosition int, currentVideoID *string) error {
	_, err := s.conn.ExecContext(ctx,
		`UPDATE displays SET timeline_position = ?, current_video_id = ? WHERE display_id = ?`,
		timelinePosition, currentVideoID, displayID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance display position: %w", err)
	}
	return nil
}

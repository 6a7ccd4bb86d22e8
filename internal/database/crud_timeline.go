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

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/wallreel/scheduler/internal/models"
)

// ErrTimelineEntryNotFound is returned by mark-played lookups.
var ErrTimelineEntryNotFound = errors.New("timeline entry not found")

const timelineColumns = `entry_id, display_id, playlist_id, block_id, video_id, block_position,
	timeline_position, loop_iteration, status, played_at, video_payload`

func scanTimelineEntry(row interface {
	Scan(dest ...interface{}) error
}) (*models.TimelineEntry, error) {
	var e models.TimelineEntry
	var status, payloadJSON string
	err := row.Scan(&e.EntryID, &e.DisplayID, &e.PlaylistID, &e.BlockID, &e.VideoID, &e.BlockPosition,
		&e.TimelinePosition, &e.LoopIteration, &status, &e.PlayedAt, &payloadJSON)
	if err == sql.ErrNoRows {
		return nil, ErrTimelineEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Status = models.EntryStatus(status)
	if err := json.Unmarshal([]byte(payloadJSON), &e.VideoPayload); err != nil {
		return nil, fmt.Errorf("failed to decode video_payload for entry %s: %w", e.EntryID, err)
	}
	return &e, nil
}

// CreateTimelineEntries inserts a batch of dense, contiguous entries
// produced by a single populate pass (spec.md §4.3 population algorithm),
// in one transaction so a partial population is never visible.
func (s *SchedulingStore) CreateTimelineEntries(ctx context.Context, entries []models.TimelineEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin create-timeline-entries transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range entries {
		payloadJSON, err := json.Marshal(e.VideoPayload)
		if err != nil {
			return fmt.Errorf("failed to encode video_payload: %w", err)
		}
		entryID := e.EntryID
		if entryID == "" {
			entryID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO timeline_videos (entry_id, display_id, playlist_id, block_id, video_id,
				block_position, timeline_position, loop_iteration, status, video_payload)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entryID, e.DisplayID, e.PlaylistID, e.BlockID, e.VideoID,
			e.BlockPosition, e.TimelinePosition, e.LoopIteration, string(models.EntryQueued), string(payloadJSON),
		)
		if err != nil {
			return fmt.Errorf("failed to insert timeline entry at position %d: %w", e.TimelinePosition, err)
		}
	}

	return tx.Commit()
}

// GetTimelineEntryAtPosition returns the entry at a given display's
// timeline_position within its current loop_iteration. The dispatcher uses
// it to find the previously dispatched entry on a poll; next_for_display
// itself reads GetNextQueuedEntry.
func (s *SchedulingStore) GetTimelineEntryAtPosition(ctx context.Context, displayID string, loopIteration, position int) (*models.TimelineEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timeline_videos
		WHERE display_id = ? AND loop_iteration = ? AND timeline_position = ?`, timelineColumns)
	return scanTimelineEntry(s.conn.QueryRowContext(ctx, query, displayID, loopIteration, position))
}

// GetTimelineEntry retrieves a single entry by id, used by mark-played to
// check idempotency before mutating.
func (s *SchedulingStore) GetTimelineEntry(ctx context.Context, entryID string) (*models.TimelineEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timeline_videos WHERE entry_id = ?`, timelineColumns)
	return scanTimelineEntry(s.conn.QueryRowContext(ctx, query, entryID))
}

// CountTimelineEntries returns the total number of entries for a display's
// current loop_iteration, used to detect rollover (position has reached the
// end of the loop) and to derive progress.
func (s *SchedulingStore) CountTimelineEntries(ctx context.Context, displayID string, loopIteration int) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM timeline_videos WHERE display_id = ? AND loop_iteration = ?`,
		displayID, loopIteration,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count timeline entries: %w", err)
	}
	return count, nil
}

// ListTimelineEntries returns every entry for a display's current loop, in
// timeline_position order, the basis for the queue-preview operator
// endpoint (SPEC_FULL.md §10 supplemented feature).
func (s *SchedulingStore) ListTimelineEntries(ctx context.Context, displayID string, loopIteration int) ([]models.TimelineEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timeline_videos
		WHERE display_id = ? AND loop_iteration = ? ORDER BY timeline_position ASC`, timelineColumns)
	rows, err := s.conn.QueryContext(ctx, query, displayID, loopIteration)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline entries: %w", err)
	}
	defer closeQuietly(rows)

	entries := make([]models.TimelineEntry, 0)
	for rows.Next() {
		e, err := scanTimelineEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// CountQueuedTimelineEntries returns the number of still-queued entries for
// a display's current loop, the rollover trigger check of spec.md §4.3.4
// ("queued count reaches zero").
func (s *SchedulingStore) CountQueuedTimelineEntries(ctx context.Context, displayID string, loopIteration int) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM timeline_videos WHERE display_id = ? AND loop_iteration = ? AND status = ?`,
		displayID, loopIteration, string(models.EntryQueued),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count queued timeline entries: %w", err)
	}
	return count, nil
}

// GetNextQueuedEntry returns the queued entry with the smallest
// timeline_position in a display's current loop, the literal contract of
// next_for_display (spec.md §4.3.2) independent of whatever the display
// row's own timeline_position happens to hold.
func (s *SchedulingStore) GetNextQueuedEntry(ctx context.Context, displayID string, loopIteration int) (*models.TimelineEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timeline_videos
		WHERE display_id = ? AND loop_iteration = ? AND status = ?
		ORDER BY timeline_position ASC LIMIT 1`, timelineColumns)
	return scanTimelineEntry(s.conn.QueryRowContext(ctx, query, displayID, loopIteration, string(models.EntryQueued)))
}

// ListQueuedEntriesForBlock returns a block's still-queued entries in
// timeline_position order, the basis for reset_blocks_to_target trimming
// (spec.md §4.3.5).
func (s *SchedulingStore) ListQueuedEntriesForBlock(ctx context.Context, displayID, blockID string, loopIteration int) ([]models.TimelineEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timeline_videos
		WHERE display_id = ? AND block_id = ? AND loop_iteration = ? AND status = ?
		ORDER BY timeline_position ASC`, timelineColumns)
	rows, err := s.conn.QueryContext(ctx, query, displayID, blockID, loopIteration, string(models.EntryQueued))
	if err != nil {
		return nil, fmt.Errorf("failed to list queued entries for block %s: %w", blockID, err)
	}
	defer closeQuietly(rows)

	entries := make([]models.TimelineEntry, 0)
	for rows.Next() {
		e, err := scanTimelineEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteTimelineEntry removes a single entry by id, used by
// reset_blocks_to_target to trim a block's queued tail down to its
// target count (spec.md §4.3.5).
func (s *SchedulingStore) DeleteTimelineEntry(ctx context.Context, entryID string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM timeline_videos WHERE entry_id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete timeline entry %s: %w", entryID, err)
	}
	return nil
}

// MarkTimelineEntryPlayed transitions queued->played exactly once (spec.md
// §3 invariant); a second call for an already-played entry affects zero
// rows, which the caller treats as the idempotent no-op mark-played
// requires (spec.md §4.3 "idempotent").
func (s *SchedulingStore) MarkTimelineEntryPlayed(ctx context.Context, entryID string) (bool, error) {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE timeline_videos SET status = ?, played_at = ? WHERE entry_id = ? AND status = ?`,
		string(models.EntryPlayed), time.Now(), entryID, string(models.EntryQueued),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark timeline entry played: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteTimelineEntriesForLoop removes every entry of a finished loop
// before repopulating the next one (spec.md §4.3 rollover).
func (s *SchedulingStore) DeleteTimelineEntriesForLoop(ctx context.Context, displayID string, loopIteration int) error {
	_, err := s.conn.ExecContext(ctx,
		`DELETE FROM timeline_videos WHERE display_id = ? AND loop_iteration = ?`,
		displayID, loopIteration,
	)
	if err != nil {
		return fmt.Errorf("failed to delete timeline entries for loop %d: %w", loopIteration, err)
	}
	return nil
}

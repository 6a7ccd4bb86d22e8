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

// RecordHistory appends a long-term, never-deleted play record (spec.md §3
// "History Entry", never deleted by the engine).
func (s *SchedulingStore) RecordHistory(ctx context.Context, displayID, videoID, blockID string, loopIteration int) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO video_history (history_id, display_id, video_id, block_id, loop_iteration, played_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), displayID, videoID, blockID, loopIteration, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// ExcludeSetForBlock returns every video_id previously played for (display,
// block) across all loops, the per-block cross-loop non-repetition
// exclusion set consumed by population (spec.md §4.3 step "a").
func (s *SchedulingStore) ExcludeSetForBlock(ctx context.Context, displayID, blockID string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT DISTINCT video_id FROM video_history WHERE display_id = ? AND block_id = ?`,
		displayID, blockID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query exclude set for block %s: %w", blockID, err)
	}
	defer closeQuietly(rows)

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan history video_id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

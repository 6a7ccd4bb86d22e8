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

	"github.com/google/uuid"

	"github.com/wallreel/scheduler/internal/models"
)

// Playlist/Block errors.
var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrBlockNotFound    = errors.New("block not found")
)

const playlistColumns = `playlist_id, display_id, name, is_active, total_blocks, total_videos,
	loop_count, created_at, updated_at`

func scanPlaylist(row interface {
	Scan(dest ...interface{}) error
}) (*models.Playlist, error) {
	var p models.Playlist
	err := row.Scan(&p.PlaylistID, &p.DisplayID, &p.Name, &p.IsActive, &p.TotalBlocks, &p.TotalVideos,
		&p.LoopCount, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPlaylistNotFound
	}
	return &p, err
}

const blockColumns = `block_id, playlist_id, search_term, video_count, fetch_mode, orientation,
	block_order, times_played, last_played_at`

func scanBlock(row interface {
	Scan(dest ...interface{}) error
}) (*models.Block, error) {
	var b models.Block
	var fetchMode, orientation string
	err := row.Scan(&b.BlockID, &b.PlaylistID, &b.SearchTerm, &b.VideoCount, &fetchMode, &orientation,
		&b.BlockOrder, &b.TimesPlayed, &b.LastPlayedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBlockNotFound
	}
	if err != nil {
		return nil, err
	}
	b.FetchMode = models.FetchMode(fetchMode)
	b.Orientation = models.Orientation(orientation)
	return &b, nil
}

// CreatePlaylist persists a playlist and its ordered blocks in one
// transaction (spec.md §4.2 create_playlist): total_blocks/total_videos are
// derived, block_order is the input index.
func (s *SchedulingStore) CreatePlaylist(ctx context.Context, displayID, name string, blocks []models.BlockInput) (*models.Playlist, error) {
	now := time.Now()
	playlistID := uuid.New().String()
	totalVideos := 0
	for _, b := range blocks {
		totalVideos += b.VideoCount
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin create-playlist transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO playlists (playlist_id, display_id, name, is_active, total_blocks, total_videos, loop_count, created_at, updated_at)
		VALUES (?, ?, ?, false, ?, ?, 0, ?, ?)`,
		playlistID, displayID, name, len(blocks), totalVideos, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	for i, b := range blocks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO playlist_blocks (block_id, playlist_id, search_term, video_count, fetch_mode, orientation, block_order, times_played)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
			uuid.New().String(), playlistID, b.SearchTerm, b.VideoCount, string(b.FetchMode), string(b.Orientation), i,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create block %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit create-playlist transaction: %w", err)
	}

	return s.GetPlaylist(ctx, playlistID)
}

// GetPlaylist retrieves a playlist by id.
func (s *SchedulingStore) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	query := fmt.Sprintf(`SELECT %s FROM playlists WHERE playlist_id = ?`, playlistColumns)
	return scanPlaylist(s.conn.QueryRowContext(ctx, query, playlistID))
}

// ListPlaylistsForDisplay returns every playlist owned by a display, newest
// first (spec.md §4.2 list_playlists_for_display).
func (s *SchedulingStore) ListPlaylistsForDisplay(ctx context.Context, displayID string) ([]models.Playlist, error) {
	query := fmt.Sprintf(`SELECT %s FROM playlists WHERE display_id = ? ORDER BY created_at DESC`, playlistColumns)
	rows, err := s.conn.QueryContext(ctx, query, displayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer closeQuietly(rows)

	playlists := make([]models.Playlist, 0)
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, *p)
	}
	return playlists, rows.Err()
}

// GetActivePlaylist returns the single active playlist for a display, if
// any (spec.md §3 "at most one active playlist" invariant).
func (s *SchedulingStore) GetActivePlaylist(ctx context.Context, displayID string) (*models.Playlist, error) {
	query := fmt.Sprintf(`SELECT %s FROM playlists WHERE display_id = ? AND is_active = true`, playlistColumns)
	return scanPlaylist(s.conn.QueryRowContext(ctx, query, displayID))
}

// GetBlock retrieves a single playlist block by id, for operator
// maintenance operations scoped to one block rather than a whole playlist.
func (s *SchedulingStore) GetBlock(ctx context.Context, blockID string) (*models.Block, error) {
	query := fmt.Sprintf(`SELECT %s FROM playlist_blocks WHERE block_id = ?`, blockColumns)
	return scanBlock(s.conn.QueryRowContext(ctx, query, blockID))
}

// GetBlocks returns a playlist's blocks ordered by block_order (spec.md
// §4.2 get_blocks).
func (s *SchedulingStore) GetBlocks(ctx context.Context, playlistID string) ([]models.Block, error) {
	query := fmt.Sprintf(`SELECT %s FROM playlist_blocks WHERE playlist_id = ? ORDER BY block_order ASC`, blockColumns)
	rows, err := s.conn.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer closeQuietly(rows)

	blocks := make([]models.Block, 0)
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

// ActivatePlaylist atomically clears any prior active flag for the
// display, sets the target playlist active, sets the display's
// current_playlist_id, and resets timeline_position to 0 — the only legal
// path to begin a playlist (spec.md §4.2 activate_playlist).
func (s *SchedulingStore) ActivatePlaylist(ctx context.Context, displayID, playlistID string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin activate transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE playlists SET is_active = false, updated_at = ? WHERE display_id = ? AND is_active = true`,
		time.Now(), displayID); err != nil {
		return fmt.Errorf("failed to clear prior active playlist: %w", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE playlists SET is_active = true, updated_at = ? WHERE playlist_id = ? AND display_id = ?`,
		time.Now(), playlistID, displayID)
	if err != nil {
		return fmt.Errorf("failed to activate playlist: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPlaylistNotFound
	}

	if _, err := tx.ExecContext(ctx, `UPDATE displays SET current_playlist_id = ?, timeline_position = 0 WHERE display_id = ?`,
		playlistID, displayID); err != nil {
		return fmt.Errorf("failed to set display active playlist: %w", err)
	}

	return tx.Commit()
}

// IncrementLoopCount bumps a playlist's loop_count, called only by the
// Timeline Engine on rollover (spec.md §4.2 increment_loop_count).
func (s *SchedulingStore) IncrementLoopCount(ctx context.Context, playlistID string) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE playlists SET loop_count = loop_count + 1, updated_at = ? WHERE playlist_id = ?`,
		time.Now(), playlistID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment loop count: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// RenamePlaylist updates a playlist's name (spec.md §4.2 rename_playlist).
func (s *SchedulingStore) RenamePlaylist(ctx context.Context, playlistID, name string) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE playlists SET name = ?, updated_at = ? WHERE playlist_id = ?`,
		name, time.Now(), playlistID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// DeletePlaylist removes a playlist and its blocks (spec.md §4.2
// delete_playlist); associated timeline entries are left for the caller to
// reconcile since a display may be actively dispatching from it.
func (s *SchedulingStore) DeletePlaylist(ctx context.Context, playlistID string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete-playlist transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_blocks WHERE playlist_id = ?`, playlistID); err != nil {
		return fmt.Errorf("failed to delete blocks: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE playlist_id = ?`, playlistID)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPlaylistNotFound
	}

	return tx.Commit()
}

// RecordBlockPlayed increments a block's times_played and stamps
// last_played_at (spec.md §4.2 record_block_played).
func (s *SchedulingStore) RecordBlockPlayed(ctx context.Context, blockID string) error {
	result, err := s.conn.ExecContext(ctx,
		`UPDATE playlist_blocks SET times_played = times_played + 1, last_played_at = ? WHERE block_id = ?`,
		time.Now(), blockID,
	)
	if err != nil {
		return fmt.Errorf("failed to record block played: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBlockNotFound
	}
	return nil
}

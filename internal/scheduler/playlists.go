// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

// Package scheduler implements the Playlist Manager (spec.md §4.2,
// Component C4) and Timeline Engine (spec.md §4.3, Component C5) business
// logic that sits above the raw Scheduling Store CRUD layer.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/models"
)

// PlaylistManager orchestrates playlist/block lifecycle on top of
// database.SchedulingStore, adding the cross-entity invariants the store
// layer doesn't own on its own (spec.md §4.2).
type PlaylistManager struct {
	store  *database.SchedulingStore
	engine *Engine
}

// NewPlaylistManager wires the manager to the Scheduling Store and the
// Timeline Engine it must call into on activation.
func NewPlaylistManager(store *database.SchedulingStore, engine *Engine) *PlaylistManager {
	return &PlaylistManager{store: store, engine: engine}
}

// CreatePlaylist validates block inputs and persists a new, inactive
// playlist (spec.md §4.2 create_playlist).
func (m *PlaylistManager) CreatePlaylist(ctx context.Context, displayID, name string, blocks []models.BlockInput) (*models.Playlist, error) {
	if name == "" {
		return nil, models.InvalidArgumentf("playlist name must not be empty")
	}
	if len(blocks) == 0 {
		return nil, models.InvalidArgumentf("playlist must have at least one block")
	}
	for i, b := range blocks {
		if b.SearchTerm == "" {
			return nil, models.InvalidArgumentf("block %d: search term must not be empty", i)
		}
		if b.VideoCount <= 0 {
			return nil, models.InvalidArgumentf("block %d: video_count must be positive", i)
		}
		if !b.FetchMode.Valid() {
			return nil, models.InvalidArgumentf("block %d: invalid fetch mode %q", i, b.FetchMode)
		}
		if b.Orientation != "" && !b.Orientation.Valid() {
			return nil, models.InvalidArgumentf("block %d: invalid orientation %q", i, b.Orientation)
		}
	}

	if _, err := m.store.GetDisplay(ctx, displayID); err != nil {
		return nil, notFoundOrWrap(err, "display %s", displayID)
	}

	playlist, err := m.store.CreatePlaylist(ctx, displayID, name, blocks)
	if err != nil {
		return nil, models.Fatalf(err, "failed to create playlist")
	}
	return playlist, nil
}

// GetPlaylist retrieves a playlist by id.
func (m *PlaylistManager) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	p, err := m.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, notFoundOrWrap(err, "playlist %s", playlistID)
	}
	return p, nil
}

// ListPlaylistsForDisplay returns every playlist owned by a display.
func (m *PlaylistManager) ListPlaylistsForDisplay(ctx context.Context, displayID string) ([]models.Playlist, error) {
	playlists, err := m.store.ListPlaylistsForDisplay(ctx, displayID)
	if err != nil {
		return nil, models.Fatalf(err, "failed to list playlists for display %s", displayID)
	}
	return playlists, nil
}

// GetBlocks returns a playlist's blocks in block_order.
func (m *PlaylistManager) GetBlocks(ctx context.Context, playlistID string) ([]models.Block, error) {
	blocks, err := m.store.GetBlocks(ctx, playlistID)
	if err != nil {
		return nil, models.Fatalf(err, "failed to list blocks for playlist %s", playlistID)
	}
	return blocks, nil
}

// ActivatePlaylist makes playlistID the display's single active playlist,
// resets timeline_position to 0, and immediately populates loop 0 (spec.md
// §4.2 activate_playlist is "the only legal path to begin a playlist").
func (m *PlaylistManager) ActivatePlaylist(ctx context.Context, displayID, playlistID string) error {
	playlist, err := m.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return notFoundOrWrap(err, "playlist %s", playlistID)
	}
	if playlist.DisplayID != displayID {
		return models.InvalidArgumentf("playlist %s does not belong to display %s", playlistID, displayID)
	}

	if err := m.store.ActivatePlaylist(ctx, displayID, playlistID); err != nil {
		if errors.Is(err, database.ErrPlaylistNotFound) {
			return models.NotFoundf("playlist %s not found for display %s", playlistID, displayID)
		}
		return models.Fatalf(err, "failed to activate playlist %s", playlistID)
	}

	// A freshly activated playlist has no prior timeline entries for loop
	// 0 to clear (spec.md §4.3.1 precondition); populate it directly
	// rather than through rollover, which would increment loop_count.
	if err := m.engine.Populate(ctx, displayID, playlistID, 0); err != nil {
		return models.CatalogUnavailablef(err, "activated playlist %s but initial population failed; the next poll will retry", playlistID)
	}
	m.engine.NotifyPlaylistActivated(displayID, playlistID)
	return nil
}

// RenamePlaylist updates a playlist's name.
func (m *PlaylistManager) RenamePlaylist(ctx context.Context, playlistID, name string) error {
	if name == "" {
		return models.InvalidArgumentf("playlist name must not be empty")
	}
	if err := m.store.RenamePlaylist(ctx, playlistID, name); err != nil {
		if errors.Is(err, database.ErrPlaylistNotFound) {
			return models.NotFoundf("playlist %s not found", playlistID)
		}
		return models.Fatalf(err, "failed to rename playlist %s", playlistID)
	}
	return nil
}

// DeletePlaylist removes a playlist and its blocks. If the playlist was
// the display's active one, it also clears the display's active
// reference — deletion of the active playlist always clears the display's
// pointer to it (spec.md §4.2 leaves
// the owning display's state undefined here).
func (m *PlaylistManager) DeletePlaylist(ctx context.Context, playlistID string) error {
	playlist, err := m.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return notFoundOrWrap(err, "playlist %s", playlistID)
	}

	if err := m.store.DeletePlaylist(ctx, playlistID); err != nil {
		if errors.Is(err, database.ErrPlaylistNotFound) {
			return models.NotFoundf("playlist %s not found", playlistID)
		}
		return models.Fatalf(err, "failed to delete playlist %s", playlistID)
	}

	if playlist.IsActive {
		if err := m.store.ClearDisplayActivePlaylist(ctx, playlist.DisplayID, playlistID); err != nil {
			return models.Fatalf(err, "deleted playlist %s but failed to clear display %s active reference", playlistID, playlist.DisplayID)
		}
		if err := m.store.DeleteTimelineEntriesForLoop(ctx, playlist.DisplayID, playlist.LoopCount); err != nil {
			return models.Fatalf(err, "deleted playlist %s but failed to clear its orphaned timeline entries", playlistID)
		}
	}
	return nil
}

func notFoundOrWrap(err error, format string, args ...interface{}) error {
	if errors.Is(err, database.ErrPlaylistNotFound) || errors.Is(err, database.ErrBlockNotFound) ||
		errors.Is(err, database.ErrDisplayNotFound) || errors.Is(err, database.ErrTimelineEntryNotFound) {
		return models.NotFoundf("%s not found", fmt.Sprintf(format, args...))
	}
	return models.Fatalf(err, format, args...)
}

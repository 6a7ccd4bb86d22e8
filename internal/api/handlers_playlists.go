// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wallreel/scheduler/internal/scheduler"
)

// PlaylistHandlers serves the operator-facing playlist/block lifecycle
// endpoints (spec.md §4.2, §6).
type PlaylistHandlers struct {
	playlists *scheduler.PlaylistManager
	engine    *scheduler.Engine
}

// NewPlaylistHandlers wires the handlers to their collaborators.
func NewPlaylistHandlers(playlists *scheduler.PlaylistManager, engine *scheduler.Engine) *PlaylistHandlers {
	return &PlaylistHandlers{playlists: playlists, engine: engine}
}

// Create handles POST /displays/{display_id}/playlists.
func (h *PlaylistHandlers) Create(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")

	var req CreatePlaylistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	playlist, err := h.playlists.CreatePlaylist(r.Context(), displayID, req.Name, req.toBlockInputs())
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Created(playlist)
}

// ListForDisplay handles GET /displays/{display_id}/playlists.
func (h *PlaylistHandlers) ListForDisplay(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")

	playlists, err := h.playlists.ListPlaylistsForDisplay(r.Context(), displayID)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(playlists)
}

// Get handles GET /playlists/{playlist_id}.
func (h *PlaylistHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	playlistID := chi.URLParam(r, "playlist_id")

	playlist, err := h.playlists.GetPlaylist(r.Context(), playlistID)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(playlist)
}

// Blocks handles GET /playlists/{playlist_id}/blocks.
func (h *PlaylistHandlers) Blocks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	playlistID := chi.URLParam(r, "playlist_id")

	blocks, err := h.playlists.GetBlocks(r.Context(), playlistID)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(blocks)
}

// Activate handles POST /displays/{display_id}/playlists/{playlist_id}/activate.
func (h *PlaylistHandlers) Activate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")
	playlistID := chi.URLParam(r, "playlist_id")

	if err := h.playlists.ActivatePlaylist(r.Context(), displayID, playlistID); err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.NoContent()
}

// Rename handles PATCH /playlists/{playlist_id}.
func (h *PlaylistHandlers) Rename(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	playlistID := chi.URLParam(r, "playlist_id")

	var req RenamePlaylistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.playlists.RenamePlaylist(r.Context(), playlistID, req.Name); err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.NoContent()
}

// Delete handles DELETE /playlists/{playlist_id}.
func (h *PlaylistHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	playlistID := chi.URLParam(r, "playlist_id")

	if err := h.playlists.DeletePlaylist(r.Context(), playlistID); err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.NoContent()
}

// ResetToTarget handles
// POST /displays/{display_id}/playlists/{playlist_id}/blocks/{block_id}/reset-to-target,
// a maintenance endpoint trimming one block's surplus queued entries back
// to its configured target (SPEC_FULL.md §10 supplemented operation).
func (h *PlaylistHandlers) ResetToTarget(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")
	playlistID := chi.URLParam(r, "playlist_id")
	blockID := chi.URLParam(r, "block_id")

	if err := h.engine.ResetBlockToTarget(r.Context(), displayID, playlistID, blockID); err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.NoContent()
}

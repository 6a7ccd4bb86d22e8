// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wallreel/scheduler/internal/scheduler"
)

// DisplayHandlers serves the operator-facing display registry endpoints
// (spec.md §6, SPEC_FULL.md operator surface).
type DisplayHandlers struct {
	displays *scheduler.DisplayManager
	engine   *scheduler.Engine
	commands *scheduler.CommandQueue
}

// NewDisplayHandlers wires the handlers to their collaborators.
func NewDisplayHandlers(displays *scheduler.DisplayManager, engine *scheduler.Engine, commands *scheduler.CommandQueue) *DisplayHandlers {
	return &DisplayHandlers{displays: displays, engine: engine, commands: commands}
}

// Register handles POST /displays, pairing a new display (operator-facing;
// spec.md §6 "created on operator action").
func (h *DisplayHandlers) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req RegisterDisplayRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	display, err := h.displays.Register(r.Context(), req.Name)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Created(display)
}

// List handles GET /displays.
func (h *DisplayHandlers) List(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displays, err := h.displays.List(r.Context())
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(displays)
}

// Get handles GET /displays/{display_id}.
func (h *DisplayHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")

	display, err := h.displays.Get(r.Context(), displayID)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(display)
}

// Delete handles DELETE /displays/{display_id}.
func (h *DisplayHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")

	if err := h.displays.Delete(r.Context(), displayID); err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.NoContent()
}

// Queue handles GET /displays/{display_id}/queue?limit=N, a preview of the
// upcoming queued timeline entries (SPEC_FULL.md supplemented operation).
func (h *DisplayHandlers) Queue(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			rw.BadRequest(ErrInvalidPaginationLimit.Error())
			return
		}
		limit = parsed
	}

	entries, err := h.engine.Queue(r.Context(), displayID, limit)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(entries)
}

// Commands handles GET /displays/{display_id}/commands, previewing pending
// commands without draining them.
func (h *DisplayHandlers) Commands(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")

	commands, err := h.commands.Preview(r.Context(), displayID)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Success(commands)
}

// EnqueueCommand handles POST /displays/{display_id}/commands.
func (h *DisplayHandlers) EnqueueCommand(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	displayID := chi.URLParam(r, "display_id")

	var req EnqueueCommandRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cmd, err := h.commands.Enqueue(r.Context(), displayID, parseCommandType(req.Type), req.Payload)
	if err != nil {
		writeDomainError(rw, err)
		return
	}
	rw.Created(cmd)
}

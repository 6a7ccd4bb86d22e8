// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wallreel/scheduler/internal/metrics"
	"github.com/wallreel/scheduler/internal/models"
	"github.com/wallreel/scheduler/internal/scheduler"
)

// PollHandler serves the single display-facing endpoint every paired
// display calls on its polling cadence (spec.md §4.4, §6). Unlike the
// operator API it returns a bare JSON object, not the APIResponse
// envelope: the display firmware this protocol targets has no use for
// success/meta wrappers.
type PollHandler struct {
	dispatcher *scheduler.Dispatcher
}

// NewPollHandler wires the poll endpoint to the Dispatcher.
func NewPollHandler(dispatcher *scheduler.Dispatcher) *PollHandler {
	return &PollHandler{dispatcher: dispatcher}
}

// pollResponseBody is the bare wire shape returned to a display (spec.md §6).
type pollResponseBody struct {
	DisplayName string                `json:"displayName"`
	Commands    []models.Command      `json:"commands"`
	NextVideo   *models.TimelineEntry `json:"nextVideo"`
	Progress    models.Progress       `json:"progress"`
}

// ServeHTTP handles POST /poll/{display_id}.
func (h *PollHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	displayID := chi.URLParam(r, "display_id")
	if displayID == "" {
		writeBarePollError(w, http.StatusBadRequest, ErrMissingDisplayID)
		return
	}

	var req PollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBarePollError(w, http.StatusBadRequest, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeBarePollError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.dispatcher.Poll(r.Context(), displayID, scheduler.PollInput{
		Liveness:       req.Liveness,
		CurrentVideoID: req.CurrentVideoID,
		Position:       req.Position,
	})
	if err != nil {
		status := statusForDomainError(err)
		metrics.RecordPollRequest(displayID, strconv.Itoa(status), time.Since(start))
		writeBarePollError(w, status, err)
		return
	}

	metrics.RecordPollRequest(displayID, "200", time.Since(start))
	writeBareJSON(w, http.StatusOK, pollResponseBody{
		DisplayName: result.Display.Name,
		Commands:    result.Commands,
		NextVideo:   result.Next,
		Progress:    result.Progress,
	})
}

// MarkPlayed handles POST /timeline/mark-played, the display-facing
// idempotent mark-played call (spec.md §6): a display reports a timeline
// entry as finished outside the poll cycle, e.g. to mark completion
// immediately rather than waiting for the next ~1Hz poll.
func (h *PollHandler) MarkPlayed(w http.ResponseWriter, r *http.Request) {
	var req MarkPlayedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBarePollError(w, http.StatusBadRequest, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeBarePollError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.dispatcher.MarkPlayed(r.Context(), req.TimelineVideoID); err != nil {
		writeBarePollError(w, statusForDomainError(err), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// statusForDomainError maps a models.Error Kind to an HTTP status for the
// bare display-facing responses, mirroring writeDomainError's mapping for
// the operator envelope.
func statusForDomainError(err error) int {
	domainErr, ok := err.(*models.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch domainErr.Kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindInvalidArgument:
		return http.StatusBadRequest
	case models.KindSchedulingConflict:
		return http.StatusConflict
	case models.KindCatalogUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeBareJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = encodeBareJSON(w, body)
}

func writeBarePollError(w http.ResponseWriter, status int, err error) {
	writeBareJSON(w, status, map[string]string{"error": err.Error()})
}

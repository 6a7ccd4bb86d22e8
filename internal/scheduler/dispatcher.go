// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package scheduler

import (
	"context"

	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/models"
)

// PollInput is a single poll's reported display state (spec.md §4.4,
// §6 POST /poll/{display_id}).
type PollInput struct {
	Liveness       string
	CurrentVideoID *string
	Position       float64
}

// PollResult is everything a poll response needs to render (spec.md §4.4,
// §6): the next video to dispatch (nil if none is available), commands
// drained for this poll, and the progress snapshot.
type PollResult struct {
	Display  *models.Display
	Next     *models.TimelineEntry
	Commands []models.Command
	Progress models.Progress
}

// Dispatcher is the Poll Endpoint/Dispatcher (spec.md §4.4, Component C6):
// record the report, opportunistically mark the prior video played,
// drain commands, dispatch the next video, and derive progress — all in
// one round trip per poll.
type Dispatcher struct {
	store    *database.SchedulingStore
	engine   *Engine
	commands *CommandQueue
}

// NewDispatcher wires the poll endpoint to its three collaborators.
func NewDispatcher(store *database.SchedulingStore, engine *Engine, commands *CommandQueue) *Dispatcher {
	return &Dispatcher{store: store, engine: engine, commands: commands}
}

// Poll implements spec.md §4.4 steps 1-6 in order:
//  1. fetch the display (404 if unknown)
//  2. record the reported liveness/position
//  3. if the previously-dispatched entry matches what was reported as
//     current and the display now reports no current video, mark that
//     entry played
//  4. drain pending commands
//  5. dispatch the next queued entry, triggering rollover if empty
//  6. derive progress from the (possibly just-advanced) display state
func (d *Dispatcher) Poll(ctx context.Context, displayID string, input PollInput) (*PollResult, error) {
	display, err := d.store.GetDisplay(ctx, displayID)
	if err != nil {
		return nil, notFoundOrWrap(err, "display %s", displayID)
	}

	liveness := models.ClampLiveness(input.Liveness)
	if err := d.store.UpdateDisplayLiveness(ctx, displayID, liveness, input.Position); err != nil {
		return nil, models.Fatalf(err, "failed to record poll for display %s", displayID)
	}

	if display.CurrentPlaylistID != nil && display.CurrentVideoID != nil && input.CurrentVideoID == nil {
		if err := d.maybeMarkPreviousPlayed(ctx, display); err != nil {
			return nil, err
		}
	}

	commands, err := d.commands.Drain(ctx, displayID)
	if err != nil {
		return nil, err
	}

	var next *models.TimelineEntry
	if display.CurrentPlaylistID != nil {
		// Per spec.md §9 "poll-before-activation" resolution: a display
		// with no active playlist yet always dispatches nil, even after
		// commands are drained.
		next, err = d.engine.DispatchNext(ctx, displayID)
		if err != nil {
			return nil, err
		}
	}

	refreshed, err := d.store.GetDisplay(ctx, displayID)
	if err != nil {
		return nil, models.Fatalf(err, "failed to reload display %s after poll", displayID)
	}

	progress := models.Progress{}
	if refreshed.CurrentPlaylistID != nil {
		playlist, err := d.store.GetPlaylist(ctx, *refreshed.CurrentPlaylistID)
		if err != nil {
			return nil, notFoundOrWrap(err, "playlist %s", *refreshed.CurrentPlaylistID)
		}
		blocks, err := d.store.GetBlocks(ctx, playlist.PlaylistID)
		if err != nil {
			return nil, models.Fatalf(err, "failed to load blocks for playlist %s", playlist.PlaylistID)
		}
		progress = models.DeriveProgress(*playlist, blocks, refreshed.TimelinePosition)
	}

	return &PollResult{
		Display:  refreshed,
		Next:     next,
		Commands: commands,
		Progress: progress,
	}, nil
}

// MarkPlayed forwards a display-reported mark-played call (spec.md §6
// POST /timeline/mark-played) to the Timeline Engine. Exposed on Dispatcher
// since it owns the poll-endpoint surface the display talks to.
func (d *Dispatcher) MarkPlayed(ctx context.Context, entryID string) error {
	return d.engine.MarkPlayed(ctx, entryID)
}

// maybeMarkPreviousPlayed implements spec.md §4.4 step 4: if the display's
// stored current_video_id (set by the last mark_played, still representing
// the video it was dispatched) equals the video at the entry the display
// is currently sitting on, and this poll reports no current video (it
// finished), mark that entry played before dispatching the next one.
func (d *Dispatcher) maybeMarkPreviousPlayed(ctx context.Context, display *models.Display) error {
	playlist, err := d.store.GetPlaylist(ctx, *display.CurrentPlaylistID)
	if err != nil {
		return notFoundOrWrap(err, "playlist %s", *display.CurrentPlaylistID)
	}

	entry, err := d.store.GetTimelineEntryAtPosition(ctx, display.DisplayID, playlist.LoopCount, display.TimelinePosition)
	if err != nil {
		// No entry sitting at the display's position (e.g. it was trimmed
		// by reset_blocks_to_target): nothing to mark, dispatch proceeds.
		return nil
	}
	if entry.Status != models.EntryQueued {
		return nil
	}
	if entry.VideoID != *display.CurrentVideoID {
		return nil
	}
	return d.engine.MarkPlayed(ctx, entry.EntryID)
}

// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wallreel/scheduler/internal/catalog"
	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/logging"
	"github.com/wallreel/scheduler/internal/metrics"
	"github.com/wallreel/scheduler/internal/models"
)

// EventNotifier receives the engine's domain events for the operator ops
// feed (A9) and, when wired, the event bus (A6). Both websocket.Hub and
// the eventprocessor publisher satisfy this with their own Broadcast*/
// Publish* methods through a thin adapter; the engine itself only needs
// these three hooks.
type EventNotifier interface {
	NotifyMarkPlayed(displayID, videoID string, position int)
	NotifyRollover(displayID string, loopCount int)
	NotifyPlaylistActivated(displayID, playlistID string)
}

// noopNotifier is used when the engine is built without an ops feed or
// event bus wired in (e.g. unit tests).
type noopNotifier struct{}

func (noopNotifier) NotifyMarkPlayed(string, string, int)   {}
func (noopNotifier) NotifyRollover(string, int)             {}
func (noopNotifier) NotifyPlaylistActivated(string, string) {}

// Engine is the Timeline Engine (spec.md §4.3, Component C5): populate,
// next_for_display/dispatch, mark_played, rollover and
// reset_blocks_to_target, serialized per display_id (spec.md §5).
type Engine struct {
	store    *database.SchedulingStore
	catalog  *catalog.Service
	notifier EventNotifier
	locks    sync.Map // display_id -> *sync.Mutex
}

// NewEngine wires the Timeline Engine to the Scheduling Store and the
// Catalog Search Service. Pass nil for notifier to run without ops-feed /
// event-bus broadcasting.
func NewEngine(store *database.SchedulingStore, catalogSvc *catalog.Service, notifier EventNotifier) *Engine {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Engine{store: store, catalog: catalogSvc, notifier: notifier}
}

// NotifyPlaylistActivated forwards a playlist activation to the ops feed /
// event bus. Exposed on Engine since PlaylistManager has no notifier of
// its own and the Timeline Engine already owns the wiring.
func (e *Engine) NotifyPlaylistActivated(displayID, playlistID string) {
	e.notifier.NotifyPlaylistActivated(displayID, playlistID)
}

func (e *Engine) lockFor(displayID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(displayID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Populate runs the population algorithm for one loop_iteration of one
// playlist (spec.md §4.3.1): for each block in block_order, fetch its
// cross-loop exclusion set, select VideoCount videos via the Catalog
// Search Service, and persist dense, contiguous, ordered entries in one
// transaction. Acquires the per-display lock itself; callers that already
// hold it (rollover) use populateLocked directly.
func (e *Engine) Populate(ctx context.Context, displayID, playlistID string, loopIteration int) error {
	lock := e.lockFor(displayID)
	lock.Lock()
	defer lock.Unlock()
	return e.populateLocked(ctx, displayID, playlistID, loopIteration)
}

func (e *Engine) populateLocked(ctx context.Context, displayID, playlistID string, loopIteration int) error {
	start := time.Now()

	blocks, err := e.store.GetBlocks(ctx, playlistID)
	if err != nil {
		return models.Fatalf(err, "failed to load blocks for playlist %s", playlistID)
	}

	entries := make([]models.TimelineEntry, 0)
	cursor := 0
	for _, block := range blocks {
		excludeSet, err := e.store.ExcludeSetForBlock(ctx, displayID, block.BlockID)
		if err != nil {
			return models.Fatalf(err, "failed to load exclude set for block %s", block.BlockID)
		}

		videos, err := e.catalog.Select(ctx, block.SearchTerm, block.VideoCount, block.FetchMode, block.Orientation, excludeSet)
		if err != nil {
			// A block that has exhausted its catalog after exclusion simply
			// contributes fewer entries (spec.md §8 property 3 footnote); a
			// genuine catalog failure propagates so the whole populate
			// attempt can be retried wholesale rather than persisted
			// half-populated.
			return err
		}

		for i, v := range videos {
			entries = append(entries, models.TimelineEntry{
				DisplayID:        displayID,
				PlaylistID:       playlistID,
				BlockID:          block.BlockID,
				VideoID:          v.VideoID,
				BlockPosition:    i,
				TimelinePosition: cursor,
				LoopIteration:    loopIteration,
				Status:           models.EntryQueued,
				VideoPayload:     v.ToPayload(),
			})
			cursor++
		}
	}

	if err := e.store.CreateTimelineEntries(ctx, entries); err != nil {
		return models.Fatalf(err, "failed to persist timeline entries for playlist %s", playlistID)
	}

	metrics.RecordTimelinePopulate(time.Since(start), len(blocks))
	return nil
}

// NextForDisplay returns the queued entry with the smallest
// timeline_position in the display's active playlist's current loop, or
// nil if none remain (spec.md §4.3.2). Pure read, no locking.
func (e *Engine) NextForDisplay(ctx context.Context, displayID string) (*models.TimelineEntry, error) {
	display, err := e.store.GetDisplay(ctx, displayID)
	if err != nil {
		return nil, notFoundOrWrap(err, "display %s", displayID)
	}
	if display.CurrentPlaylistID == nil {
		return nil, nil
	}

	playlist, err := e.store.GetPlaylist(ctx, *display.CurrentPlaylistID)
	if err != nil {
		return nil, notFoundOrWrap(err, "playlist %s", *display.CurrentPlaylistID)
	}

	entry, err := e.store.GetNextQueuedEntry(ctx, displayID, playlist.LoopCount)
	if err != nil {
		if errors.Is(err, database.ErrTimelineEntryNotFound) {
			return nil, nil
		}
		return nil, models.Fatalf(err, "failed to query next queued entry for display %s", displayID)
	}
	return entry, nil
}

// DispatchNext implements the poll endpoint's dispatch step (spec.md
// §4.4 step 5): if next_for_display is empty, trigger rollover and
// recompute once. A rollover that cannot populate (catalog down) degrades
// to a nil next video rather than failing the poll.
func (e *Engine) DispatchNext(ctx context.Context, displayID string) (*models.TimelineEntry, error) {
	entry, err := e.NextForDisplay(ctx, displayID)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}

	if err := e.Rollover(ctx, displayID); err != nil {
		logging.Warn().Err(err).Str("display_id", displayID).Msg("rollover did not complete; next poll will retry population")
		return nil, nil
	}

	entry, err = e.NextForDisplay(ctx, displayID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// MarkPlayed transitions one entry queued->played, records history,
// advances the display's block play counter, and evaluates rollover
// (spec.md §4.3.3). A second call against an already-played entry is a
// no-op, giving mark_played its idempotence (spec.md §3 invariant).
func (e *Engine) MarkPlayed(ctx context.Context, entryID string) error {
	entry, err := e.store.GetTimelineEntry(ctx, entryID)
	if err != nil {
		return notFoundOrWrap(err, "timeline entry %s", entryID)
	}
	if entry.Status == models.EntryPlayed {
		return nil
	}

	lock := e.lockFor(entry.DisplayID)
	lock.Lock()
	advanced, err := e.markPlayedLocked(ctx, entry)
	lock.Unlock()
	if err != nil {
		return err
	}
	metrics.RecordMarkPlayed(entry.DisplayID, advanced)
	if !advanced {
		return nil
	}

	e.notifier.NotifyMarkPlayed(entry.DisplayID, entry.VideoID, entry.TimelinePosition)

	queued, err := e.queuedCountForCurrentLoop(ctx, entry.DisplayID)
	if err != nil {
		logging.Warn().Err(err).Str("display_id", entry.DisplayID).Msg("failed to check queued count after mark-played")
		return nil
	}
	if queued == 0 {
		if err := e.Rollover(ctx, entry.DisplayID); err != nil {
			logging.Warn().Err(err).Str("display_id", entry.DisplayID).Msg("rollover after mark-played did not complete")
		}
	}
	return nil
}

func (e *Engine) markPlayedLocked(ctx context.Context, entry *models.TimelineEntry) (bool, error) {
	advanced, err := e.store.MarkTimelineEntryPlayed(ctx, entry.EntryID)
	if err != nil {
		return false, models.Fatalf(err, "failed to mark timeline entry %s played", entry.EntryID)
	}
	if !advanced {
		return false, nil
	}

	if err := e.store.RecordHistory(ctx, entry.DisplayID, entry.VideoID, entry.BlockID, entry.LoopIteration); err != nil {
		return false, models.Fatalf(err, "failed to record history for entry %s", entry.EntryID)
	}
	if err := e.store.RecordBlockPlayed(ctx, entry.BlockID); err != nil {
		return false, models.Fatalf(err, "failed to record block played for block %s", entry.BlockID)
	}
	videoID := entry.VideoID
	if err := e.store.AdvanceDisplayPosition(ctx, entry.DisplayID, entry.TimelinePosition+1, &videoID); err != nil {
		return false, models.Fatalf(err, "failed to advance display position for %s", entry.DisplayID)
	}
	return true, nil
}

func (e *Engine) queuedCountForCurrentLoop(ctx context.Context, displayID string) (int, error) {
	display, err := e.store.GetDisplay(ctx, displayID)
	if err != nil {
		return 0, err
	}
	if display.CurrentPlaylistID == nil {
		return 0, nil
	}
	playlist, err := e.store.GetPlaylist(ctx, *display.CurrentPlaylistID)
	if err != nil {
		return 0, err
	}
	return e.store.CountQueuedTimelineEntries(ctx, displayID, playlist.LoopCount)
}

// Rollover increments the active playlist's loop_count, deletes the
// finished loop's entries, resets the display's timeline_position, and
// repopulates the next loop (spec.md §4.3.4). Safe to call when another
// caller already rolled over concurrently: re-checks the queued count
// under the per-display lock before doing any work.
func (e *Engine) Rollover(ctx context.Context, displayID string) error {
	lock := e.lockFor(displayID)
	lock.Lock()
	defer lock.Unlock()

	display, err := e.store.GetDisplay(ctx, displayID)
	if err != nil {
		return notFoundOrWrap(err, "display %s", displayID)
	}
	if display.CurrentPlaylistID == nil {
		return nil
	}

	playlist, err := e.store.GetPlaylist(ctx, *display.CurrentPlaylistID)
	if err != nil {
		return notFoundOrWrap(err, "playlist %s", *display.CurrentPlaylistID)
	}

	queued, err := e.store.CountQueuedTimelineEntries(ctx, displayID, playlist.LoopCount)
	if err != nil {
		return models.Fatalf(err, "failed to count queued entries for display %s", displayID)
	}
	if queued > 0 {
		// Already repopulated by a racing mark_played/dispatch call.
		return nil
	}

	if err := e.store.IncrementLoopCount(ctx, playlist.PlaylistID); err != nil {
		return models.Fatalf(err, "failed to increment loop count for playlist %s", playlist.PlaylistID)
	}
	nextLoop := playlist.LoopCount + 1

	if err := e.store.DeleteTimelineEntriesForLoop(ctx, displayID, playlist.LoopCount); err != nil {
		return models.Fatalf(err, "failed to delete finished loop entries for display %s", displayID)
	}
	if err := e.store.ResetDisplayTimelinePosition(ctx, displayID); err != nil {
		return models.Fatalf(err, "failed to reset timeline position for display %s", displayID)
	}

	metrics.RecordTimelineRollover(displayID)
	e.notifier.NotifyRollover(displayID, nextLoop)

	// A rollover that cannot repopulate (catalog down) leaves loop_count
	// incremented but the timeline empty; the next poll retries
	// population opportunistically (spec.md §9).
	return e.populateLocked(ctx, displayID, playlist.PlaylistID, nextLoop)
}

// Queue returns up to limit upcoming entries (queued, in timeline_position
// order) for a display's current loop, backing the operator queue-preview
// endpoint (SPEC_FULL.md §10 "GET /displays/{id}/queue?limit=N").
func (e *Engine) Queue(ctx context.Context, displayID string, limit int) ([]models.TimelineEntry, error) {
	display, err := e.store.GetDisplay(ctx, displayID)
	if err != nil {
		return nil, notFoundOrWrap(err, "display %s", displayID)
	}
	if display.CurrentPlaylistID == nil {
		return []models.TimelineEntry{}, nil
	}

	playlist, err := e.store.GetPlaylist(ctx, *display.CurrentPlaylistID)
	if err != nil {
		return nil, notFoundOrWrap(err, "playlist %s", *display.CurrentPlaylistID)
	}

	entries, err := e.store.ListTimelineEntries(ctx, displayID, playlist.LoopCount)
	if err != nil {
		return nil, models.Fatalf(err, "failed to list timeline entries for display %s", displayID)
	}

	queued := make([]models.TimelineEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Status == models.EntryQueued {
			queued = append(queued, entry)
		}
	}
	if limit > 0 && limit < len(queued) {
		queued = queued[:limit]
	}
	return queued, nil
}

// ResetBlockToTarget trims one block's queued tail in the display's current
// loop back down to its configured VideoCount, discarding any surplus
// entries produced by a prior population with a looser target (spec.md
// §4.3.5, SPEC_FULL.md §10 supplemented per-block maintenance operation).
func (e *Engine) ResetBlockToTarget(ctx context.Context, displayID, playlistID, blockID string) error {
	lock := e.lockFor(displayID)
	lock.Lock()
	defer lock.Unlock()

	playlist, err := e.store.GetPlaylist(ctx, playlistID)
	if err != nil {
		return notFoundOrWrap(err, "playlist %s", playlistID)
	}
	block, err := e.store.GetBlock(ctx, blockID)
	if err != nil {
		return notFoundOrWrap(err, "block %s", blockID)
	}

	entries, err := e.store.ListQueuedEntriesForBlock(ctx, displayID, block.BlockID, playlist.LoopCount)
	if err != nil {
		return models.Fatalf(err, "failed to list queued entries for block %s", block.BlockID)
	}
	if len(entries) <= block.VideoCount {
		return nil
	}
	for _, surplus := range entries[block.VideoCount:] {
		if err := e.store.DeleteTimelineEntry(ctx, surplus.EntryID); err != nil {
			return models.Fatalf(err, "failed to trim surplus entry %s", surplus.EntryID)
		}
	}
	return nil
}

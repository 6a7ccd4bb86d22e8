// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package scheduler

import (
	"context"
	"time"

	"github.com/wallreel/scheduler/internal/database"
	"github.com/wallreel/scheduler/internal/logging"
)

// RolloverSweep periodically retries rollover for every display with an
// active playlist. Engine.Rollover is idempotent (spec.md §4.3.4 re-checks
// the queued count under lock before doing anything), so a sweep that finds
// a display already populated is a no-op; it only does real work for a
// display whose rollover previously degraded because the catalog was
// unavailable (spec.md §9) and whose next poll hasn't arrived yet.
//
// One rollover attempt per display per sweep tick - a display that keeps
// failing waits for the next tick rather than being retried in a hot loop.
type RolloverSweep struct {
	store    *database.SchedulingStore
	engine   *Engine
	interval time.Duration
}

// NewRolloverSweep wires the sweep to the Scheduling Store and Timeline
// Engine it retries rollover against, using a default interval suited to
// production polling cadences.
func NewRolloverSweep(store *database.SchedulingStore, engine *Engine) *RolloverSweep {
	return &RolloverSweep{store: store, engine: engine, interval: 30 * time.Second}
}

// Serve implements suture.Service.
func (s *RolloverSweep) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *RolloverSweep) sweepOnce(ctx context.Context) {
	displays, err := s.store.ListDisplays(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("rollover sweep: failed to list displays")
		return
	}

	for _, d := range displays {
		if d.CurrentPlaylistID == nil {
			continue
		}
		queued, err := s.engine.queuedCountForCurrentLoop(ctx, d.DisplayID)
		if err != nil {
			logging.Warn().Err(err).Str("display_id", d.DisplayID).Msg("rollover sweep: failed to check queued count")
			continue
		}
		if queued > 0 {
			continue
		}
		if err := s.engine.Rollover(ctx, d.DisplayID); err != nil {
			logging.Warn().Err(err).Str("display_id", d.DisplayID).Msg("rollover sweep: retry failed, will retry next tick")
		}
	}
}

// String implements fmt.Stringer for suture's service logging.
func (s *RolloverSweep) String() string {
	return "rollover-sweep"
}
